package handler

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"kmapi/internal/model"
	"kmapi/internal/service"
)

type queueRequest struct {
	Message string `json:"message"`
}

type queueStatsResponse struct {
	Queues []model.QueueStats `json:"queues"`
}

// SendSummaryRequest godoc
// @Summary Request a document summary
// @Description Enqueues the message (usually a document name) on the summary queue.
// @Tags queues
// @Accept json
// @Produce json
// @Param request body queueRequest true "Queue message"
// @Success 202 {object} model.QueueReceipt
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /queues/summaries [post]
func SendSummaryRequest(svc service.QueueService) fiber.Handler {
	return enqueue(func(ctx context.Context, msg string) (*model.QueueReceipt, error) {
		return svc.SendSummaryRequest(ctx, msg)
	})
}

// SendTraitsRequest godoc
// @Summary Request trait extraction
// @Description Enqueues the message on the traits queue.
// @Tags queues
// @Accept json
// @Produce json
// @Param request body queueRequest true "Queue message"
// @Success 202 {object} model.QueueReceipt
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /queues/traits [post]
func SendTraitsRequest(svc service.QueueService) fiber.Handler {
	return enqueue(func(ctx context.Context, msg string) (*model.QueueReceipt, error) {
		return svc.SendTraitsRequest(ctx, msg)
	})
}

type sendFunc func(ctx context.Context, message string) (*model.QueueReceipt, error)

func enqueue(send sendFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req queueRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON object with a message")
		}
		receipt, err := send(c.UserContext(), req.Message)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(receipt)
	}
}

// QueueStats godoc
// @Summary Queue depths
// @Tags queues
// @Produce json
// @Success 200 {object} queueStatsResponse
// @Failure 500 {object} errorPayload
// @Router /queues [get]
func QueueStats(svc service.QueueService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(queueStatsResponse{Queues: stats})
	}
}
