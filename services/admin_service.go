package services

import (
	"context"
	"errors"
	"fmt"

	"payment-callback-service/apperrors"
	"payment-callback-service/models"
	"payment-callback-service/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminRoleAssigner is the interface consumed by the admin controller.
type AdminRoleAssigner interface {
	SetAdminRole(ctx context.Context, caller models.Caller, userID string, isAdmin bool) (string, error)
}

// AdminService grants or revokes the administrative capability for a user,
// writing both the identity provider's custom claim and the user record.
type AdminService struct {
	identity IdentityProvider
	users    repository.UserRepository
	logger   *zap.Logger
}

func NewAdminService(identity IdentityProvider, users repository.UserRepository, logger *zap.Logger) *AdminService {
	return &AdminService{
		identity: identity,
		users:    users,
		logger:   logger,
	}
}

// SetAdminRole performs the claim write first, then the record write. A
// failure in between surfaces as a partial write; retrying the whole
// operation is safe because both writes are idempotent.
func (s *AdminService) SetAdminRole(ctx context.Context, caller models.Caller, userID string, isAdmin bool) (string, error) {
	if !caller.IsAdmin {
		return "", apperrors.PermissionDenied("Only admins can set admin roles")
	}
	if userID == "" {
		return "", apperrors.InvalidArgument("userId and isAdmin (boolean) are required")
	}

	if err := s.identity.SetAdminClaim(ctx, userID, isAdmin); err != nil {
		s.logger.Error("Failed to set admin claim",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return "", apperrors.Internal("Failed to set admin role", err)
	}

	if err := s.users.UpdateAdminFlag(ctx, userID, isAdmin); err != nil {
		s.logger.Error("User record update failed after claim write",
			zap.String("user_id", userID),
			zap.Bool("is_admin", isAdmin),
			zap.Error(err),
		)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.PartialWrite("User record not found after claim write", err)
		}
		return "", apperrors.PartialWrite("Failed to update user record", err)
	}

	s.logger.Info("Admin role updated",
		zap.String("caller_id", caller.UserID),
		zap.String("user_id", userID),
		zap.Bool("is_admin", isAdmin),
	)

	return fmt.Sprintf("Admin status for user %s set to %t", userID, isAdmin), nil
}
