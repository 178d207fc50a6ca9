package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kmapi/internal/config"
	"kmapi/internal/logging"
	"kmapi/internal/model"
	"kmapi/internal/repository"
)

var ErrMessageRequired = errors.New("message is required")

// QueueService dispatches work requests to the summary and traits queues.
type QueueService interface {
	// SendSummaryRequest enqueues message on the summary queue.
	SendSummaryRequest(ctx context.Context, message string) (*model.QueueReceipt, error)
	// SendTraitsRequest enqueues message on the traits queue.
	SendTraitsRequest(ctx context.Context, message string) (*model.QueueReceipt, error)
	// Stats reports the approximate depth of both queues.
	Stats(ctx context.Context) ([]model.QueueStats, error)
}

type queueService struct {
	repo       repository.MessageRepository
	summary    string
	traits     string
	ttl        time.Duration
	visibility time.Duration
	log        *slog.Logger
}

// NewQueueService constructs a QueueService from the queue configuration.
func NewQueueService(repo repository.MessageRepository, cfg config.QueueConfig, log *slog.Logger) QueueService {
	return &queueService{
		repo:       repo,
		summary:    cfg.SummaryName,
		traits:     cfg.TraitsName,
		ttl:        time.Duration(cfg.MessageTTLSec) * time.Second,
		visibility: time.Duration(cfg.VisibilityTimeoutSec) * time.Second,
		log:        logging.Component(log, "queue"),
	}
}

func (s *queueService) SendSummaryRequest(ctx context.Context, message string) (*model.QueueReceipt, error) {
	return s.send(ctx, s.summary, message)
}

func (s *queueService) SendTraitsRequest(ctx context.Context, message string) (*model.QueueReceipt, error) {
	return s.send(ctx, s.traits, message)
}

func (s *queueService) Stats(ctx context.Context) ([]model.QueueStats, error) {
	out := make([]model.QueueStats, 0, 2)
	for _, q := range []string{s.summary, s.traits} {
		n, err := s.repo.Count(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("count queue %s: %w", q, err)
		}
		out = append(out, model.QueueStats{Name: q, ApproximateMessageCount: n})
	}
	return out, nil
}

func (s *queueService) send(ctx context.Context, queue, message string) (*model.QueueReceipt, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageRequired
	}

	ctx, span := tracer.Start(ctx, "QueueService.Send", trace.WithAttributes(
		attribute.String("queue.name", queue),
	))
	defer span.End()

	rec, err := s.repo.Enqueue(ctx, repository.EnqueueParams{
		Queue:             queue,
		Body:              message,
		TTL:               s.ttl,
		VisibilityTimeout: s.visibility,
	})
	if err != nil {
		recordError(span, err)
		s.log.ErrorContext(ctx, "enqueue failed", "queue", queue, "error", err)
		return nil, fmt.Errorf("enqueue %s: %w", queue, err)
	}

	s.log.InfoContext(ctx, "message enqueued", "queue", queue, "message_id", rec.MessageID)
	return rec, nil
}
