package controllers

import (
	"net/http"

	"payment-callback-service/apperrors"
	"payment-callback-service/middleware"
	"payment-callback-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Admin  services.AdminRoleAssigner
	Logger *zap.Logger
}

func NewAdminController(admin services.AdminRoleAssigner, logger *zap.Logger) *AdminController {
	return &AdminController{Admin: admin, Logger: logger}
}

// SetAdminRole grants or revokes the admin capability for a user. is_admin
// is a pointer so that an explicit false passes required-field binding.
func (ac *AdminController) SetAdminRole(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		UserID  string `json:"user_id" binding:"required"`
		IsAdmin *bool  `json:"is_admin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    apperrors.CodeInvalidArgument,
			"message": "userId and isAdmin (boolean) are required",
		})
		return
	}

	message, err := ac.Admin.SetAdminRole(c.Request.Context(), caller, req.UserID, *req.IsAdmin)
	if err != nil {
		appErr := apperrors.From(err)
		if appErr.Status >= http.StatusInternalServerError {
			ac.Logger.Error("Error setting admin role", zap.String("user_id", req.UserID), zap.Error(err))
		}
		c.JSON(appErr.Status, gin.H{
			"code":    appErr.Code,
			"message": appErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
