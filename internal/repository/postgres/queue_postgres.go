package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kmapi/internal/model"
	"kmapi/internal/repository"
)

// MessagePostgres is a PostgreSQL implementation of repository.MessageRepository.
type MessagePostgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewMessagePostgres creates a new MessagePostgres repository.
func NewMessagePostgres(db *sql.DB) *MessagePostgres {
	return &MessagePostgres{db: db, now: time.Now}
}

var _ repository.MessageRepository = (*MessagePostgres)(nil)

// Enqueue inserts one message. Timestamps are computed here, truncated to the microsecond
// precision PostgreSQL stores, so the returned receipt matches the row.
func (r *MessagePostgres) Enqueue(ctx context.Context, p repository.EnqueueParams) (*model.QueueReceipt, error) {
	if p.TTL <= 0 {
		return nil, fmt.Errorf("message ttl must be positive, got %s", p.TTL)
	}
	if p.VisibilityTimeout < 0 {
		return nil, fmt.Errorf("visibility timeout must not be negative, got %s", p.VisibilityTimeout)
	}

	now := r.now().UTC().Truncate(time.Microsecond)

	const q = `
		INSERT INTO queue_messages (id, queue_name, body, pop_receipt, inserted_at, expires_at, next_visible_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, inserted_at, expires_at, pop_receipt, next_visible_at
	`
	row := r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		p.Queue,
		p.Body,
		uuid.NewString(),
		now,
		now.Add(p.TTL),
		now.Add(p.VisibilityTimeout),
	)

	var out model.QueueReceipt
	if err := row.Scan(
		&out.MessageID,
		&out.InsertedAt,
		&out.ExpiresAt,
		&out.PopReceipt,
		&out.NextVisibleAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// Count returns the approximate depth of a queue. Expired rows are not counted.
func (r *MessagePostgres) Count(ctx context.Context, queue string) (int, error) {
	const q = `SELECT COUNT(*) FROM queue_messages WHERE queue_name = $1 AND expires_at > $2`
	var n int
	if err := r.db.QueryRowContext(ctx, q, queue, r.now().UTC()).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
