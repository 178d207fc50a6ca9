package model

import "time"

// QueueReceipt is returned for every message accepted by a queue.
type QueueReceipt struct {
	MessageID     string    `json:"message_id"`
	InsertedAt    time.Time `json:"inserted_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	PopReceipt    string    `json:"pop_receipt"`
	NextVisibleAt time.Time `json:"next_visible_at"`
}

type QueueStats struct {
	Name                    string `json:"name"`
	ApproximateMessageCount int    `json:"approximate_message_count"`
}
