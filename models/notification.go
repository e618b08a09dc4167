package models

// MidtransNotification is the webhook payload consumed from the gateway.
// transaction_id is optional; Midtrans omits it for some status transitions.
type MidtransNotification struct {
	OrderID           string `json:"order_id" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	TransactionID     string `json:"transaction_id"`
}

// Caller is the authenticated identity extracted from the bearer token.
type Caller struct {
	UserID  string
	IsAdmin bool
}
