package repository

import (
	"context"
	"time"

	"kmapi/internal/model"
)

// MessageRepository persists queue messages. Consumers live outside this service;
// the repository only writes messages and reports queue depth.
type MessageRepository interface {
	// Enqueue inserts a message and returns its receipt.
	Enqueue(ctx context.Context, p EnqueueParams) (*model.QueueReceipt, error)

	// Count returns the number of unexpired messages in the named queue.
	Count(ctx context.Context, queue string) (int, error)
}

// EnqueueParams describes a single message to insert.
// TTL must be positive; VisibilityTimeout may be zero for immediately visible messages.
type EnqueueParams struct {
	Queue             string
	Body              string
	TTL               time.Duration
	VisibilityTimeout time.Duration
}
