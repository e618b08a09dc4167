package repository

import (
	"context"
	"time"

	"payment-callback-service/models"

	"gorm.io/gorm"
)

// UserRepository abstracts access to user records.
type UserRepository interface {
	UpdateAdminFlag(ctx context.Context, userID string, isAdmin bool) error
}

type gormUserRepo struct {
	db *gorm.DB
}

func NewGormUserRepo(db *gorm.DB) UserRepository {
	return &gormUserRepo{db: db}
}

// UpdateAdminFlag sets the user's is_admin attribute and refreshes
// updated_at. Returns gorm.ErrRecordNotFound when the user does not exist.
func (r *gormUserRepo) UpdateAdminFlag(ctx context.Context, userID string, isAdmin bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_admin":   isAdmin,
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
