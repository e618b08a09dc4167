package controllers

import (
	"net/http"

	"payment-callback-service/apperrors"
	"payment-callback-service/models"
	"payment-callback-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CallbackController struct {
	Reconciler services.Reconciler
	Logger     *zap.Logger
}

func NewCallbackController(reconciler services.Reconciler, logger *zap.Logger) *CallbackController {
	return &CallbackController{Reconciler: reconciler, Logger: logger}
}

// HandleMidtransCallback receives an asynchronous payment-status
// notification and reconciles it against the payment and order records.
// The route is registered for every method; anything but POST gets 405.
func (cc *CallbackController) HandleMidtransCallback(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	var notification models.MidtransNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: order_id, transaction_status",
		})
		return
	}

	cc.Logger.Info("Processing Midtrans callback",
		zap.String("order_id", notification.OrderID),
		zap.String("transaction_status", notification.TransactionStatus),
		zap.String("transaction_id", notification.TransactionID),
	)

	result, err := cc.Reconciler.Reconcile(c.Request.Context(), notification)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Callback processed successfully",
		"orderId": result.OrderID,
		"status":  result.Status,
	})
}

func (cc *CallbackController) respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)

	if appErr.Status >= http.StatusInternalServerError {
		cc.Logger.Error("Error processing Midtrans callback", zap.Error(err))
		c.JSON(appErr.Status, gin.H{
			"error":   "Failed to process callback",
			"message": appErr.Error(),
		})
		return
	}

	cc.Logger.Warn("Rejected Midtrans callback", zap.String("code", appErr.Code), zap.Error(err))
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
