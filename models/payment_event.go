package models

import "time"

// PaymentEvent is published after a reconciliation changes state.
type PaymentEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"` // payment_success | payment_failed | payment_pending
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
