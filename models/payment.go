package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the canonical payment record, keyed by the gateway-assigned
// order ID. OrderRef duplicates the order ID so the user-scoped order row
// can be located from the payment itself rather than from caller input.
type Payment struct {
	OrderID           string        `gorm:"type:varchar(64);primaryKey"`
	UserID            string        `gorm:"type:varchar(64);index;not null"`
	OrderRef          string        `gorm:"type:varchar(64);not null"`
	TransactionID     *string       `gorm:"type:varchar(128)"`
	Status            PaymentStatus `gorm:"type:varchar(20);not null"`
	TransactionStatus string        `gorm:"type:varchar(40)"` // raw gateway status, kept for audit
	Timestamp         time.Time
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// Order is the per-user order record. Its status mirrors the payment's
// canonical outcome, notification-driven rather than atomically.
type Order struct {
	UserID    string        `gorm:"type:varchar(64);primaryKey"`
	OrderID   string        `gorm:"type:varchar(64);primaryKey"`
	Status    PaymentStatus `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time     `gorm:"autoCreateTime"`
	UpdatedAt time.Time
}

// User carries the administrative capability flag. The identity provider
// holds a custom claim mirroring IsAdmin; the two are kept in sync by the
// admin-role operation.
type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time
}
