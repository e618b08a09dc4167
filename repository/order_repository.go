package repository

import (
	"context"
	"time"

	"payment-callback-service/models"

	"gorm.io/gorm"
)

// OrderRepository abstracts access to the per-user order records.
type OrderRepository interface {
	UpdateStatus(ctx context.Context, userID, orderID string, status models.PaymentStatus) error
}

type gormOrderRepo struct {
	db *gorm.DB
}

func NewGormOrderRepo(db *gorm.DB) OrderRepository {
	return &gormOrderRepo{db: db}
}

// UpdateStatus sets the order's status and refreshes updated_at. Returns
// gorm.ErrRecordNotFound when no row matches the composite key.
func (r *gormOrderRepo) UpdateStatus(ctx context.Context, userID, orderID string, status models.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
