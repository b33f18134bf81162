package domain

import "time"

type OrderCompletedEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id,omitempty"`
	Total       float64   `json:"total"`
	CompletedAt time.Time `json:"completed_at"`
}
