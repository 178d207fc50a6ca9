package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"kmapi/internal/database"
	"kmapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Document names may contain slashes, so per-document routes take the name as a trailing wildcard.
// metrics is mounted at /metrics when non-nil.
func RegisterRoutes(app *fiber.App, db database.Pinger, docSvc service.DocumentService, queueSvc service.QueueService, metrics http.Handler) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	docs := app.Group("/documents")
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocuments(docSvc))
	docs.Get("/content/*", DownloadDocument(docSvc))
	docs.Delete("/content/*", DeleteDocument(docSvc))
	docs.Get("/link/*", GetDocumentLink(docSvc))
	docs.Get("/tags/*", GetDocumentTags(docSvc))
	docs.Patch("/tags/*", SetDocumentTags(docSvc))
	docs.Get("/metadata/*", GetDocumentMetadata(docSvc))
	docs.Patch("/metadata/*", SetDocumentMetadata(docSvc))
	docs.Patch("/traits/*", SetDocumentTraits(docSvc))

	queues := app.Group("/queues")
	queues.Get("/", QueueStats(queueSvc))
	queues.Post("/summaries", SendSummaryRequest(queueSvc))
	queues.Post("/traits", SendTraitsRequest(queueSvc))
}
