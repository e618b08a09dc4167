package repository

import (
	"context"
	"time"

	"payment-callback-service/models"

	"gorm.io/gorm"
)

// PaymentRepository abstracts access to the canonical payment records.
type PaymentRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	UpdateByOrderID(ctx context.Context, orderID string, updates map[string]interface{}) error
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateByOrderID applies a set of column updates to a payment row.
// timestamp is always refreshed.
func (r *gormPaymentRepo) UpdateByOrderID(ctx context.Context, orderID string, updates map[string]interface{}) error {
	updates["timestamp"] = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Payment{}).Where("order_id = ?", orderID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
