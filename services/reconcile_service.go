package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"payment-callback-service/apperrors"
	awspkg "payment-callback-service/aws"
	"payment-callback-service/models"
	"payment-callback-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventPublisher publishes payment events after a reconciliation.
type EventPublisher interface {
	Publish(event models.PaymentEvent) error
}

// Reconciler is the interface consumed by the webhook controller.
type Reconciler interface {
	Reconcile(ctx context.Context, n models.MidtransNotification) (*ReconcileResult, error)
}

// ReconcileResult is the acknowledgement returned for a processed
// notification. Applied is false when a guard skipped the writes; Status
// then reports the stored status, not the notification's.
type ReconcileResult struct {
	OrderID string
	Status  models.PaymentStatus
	Applied bool
}

// ReconcileService applies gateway notifications to the payment record and
// the dependent per-user order record. The payment write happens before the
// order write; the order's key material comes from the freshly re-read
// payment row, never from the caller's payload.
type ReconcileService struct {
	payments    repository.PaymentRepository
	orders      repository.OrderRepository
	producer    EventPublisher
	sns         awspkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

func NewReconcileService(
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	producer EventPublisher,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		payments:    payments,
		orders:      orders,
		producer:    producer,
		sns:         snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

func (s *ReconcileService) Reconcile(ctx context.Context, n models.MidtransNotification) (*ReconcileResult, error) {
	if n.OrderID == "" || n.TransactionStatus == "" {
		return nil, apperrors.InvalidArgument("Missing required fields: order_id, transaction_status")
	}

	status := models.MapTransactionStatus(n.TransactionStatus)

	payment, err := s.payments.GetByOrderID(ctx, n.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Payment record not found", zap.String("order_id", n.OrderID))
		return nil, apperrors.NotFound("Payment not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to load payment", err)
	}

	// Terminal statuses are never overwritten by a different outcome.
	// Stale or conflicting notifications are acknowledged with the stored
	// status so the gateway stops retrying. Redelivery of the same terminal
	// outcome falls through and reapplies both writes: they are idempotent,
	// and reapplying is what converges the order row after an earlier
	// partial failure.
	if payment.Status.IsTerminal() && status != payment.Status {
		if status.IsTerminal() {
			s.logger.Warn("Terminal status conflict, keeping stored status",
				zap.String("order_id", n.OrderID),
				zap.String("stored_status", string(payment.Status)),
				zap.String("incoming_status", string(status)),
				zap.String("transaction_status", n.TransactionStatus),
			)
		} else {
			s.logger.Info("Stale notification ignored",
				zap.String("order_id", n.OrderID),
				zap.String("stored_status", string(payment.Status)),
				zap.String("incoming_status", string(status)),
			)
		}
		return &ReconcileResult{OrderID: n.OrderID, Status: payment.Status}, nil
	}

	if err := s.payments.UpdateByOrderID(ctx, n.OrderID, map[string]interface{}{
		"transaction_id":     n.TransactionID,
		"status":             status,
		"transaction_status": n.TransactionStatus,
	}); err != nil {
		return nil, apperrors.Internal("Failed to update payment", err)
	}

	// Re-read the payment post-update; that snapshot is authoritative for
	// the order's key material.
	payment, err = s.payments.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		return nil, apperrors.Internal("Failed to reload payment", err)
	}

	if payment.UserID == "" || payment.OrderRef == "" {
		s.logger.Error("Payment record missing user or order linkage",
			zap.String("order_id", n.OrderID),
			zap.String("user_id", payment.UserID),
			zap.String("order_ref", payment.OrderRef),
		)
		return nil, apperrors.FailedPrecondition("Invalid payment data: missing userId or orderId")
	}

	if err := s.orders.UpdateStatus(ctx, payment.UserID, payment.OrderRef, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The payment write committed and stays committed; the caller
			// redelivers the notification once the order row exists.
			return nil, apperrors.PartialWrite("Order not found for settled payment", err)
		}
		return nil, apperrors.PartialWrite("Failed to update order", err)
	}

	s.logger.Info("Callback processed successfully",
		zap.String("order_id", n.OrderID),
		zap.String("status", string(status)),
		zap.String("user_id", payment.UserID),
	)

	s.publishPaymentEvent(ctx, payment, status, n.TransactionID)

	return &ReconcileResult{OrderID: n.OrderID, Status: status, Applied: true}, nil
}

// publishPaymentEvent sends the event to Kafka and mirrors it to SNS.
// Both publishes are best-effort; a failed publish never fails the webhook.
func (s *ReconcileService) publishPaymentEvent(ctx context.Context, payment *models.Payment, status models.PaymentStatus, transactionID string) {
	event := models.PaymentEvent{
		ID:            uuid.NewString(),
		Type:          "payment_" + string(status),
		OrderID:       payment.OrderID,
		UserID:        payment.UserID,
		Status:        string(status),
		TransactionID: transactionID,
		Timestamp:     time.Now().UTC(),
	}

	if s.producer != nil {
		if err := s.producer.Publish(event); err != nil {
			s.logger.Error("Failed to publish payment event",
				zap.String("event_type", event.Type),
				zap.String("order_id", event.OrderID),
				zap.Error(err),
			)
		}
	}

	if s.sns != nil && s.snsTopicArn != "" {
		payload, _ := json.Marshal(event)
		if err := s.sns.Publish(ctx, s.snsTopicArn, payload); err != nil {
			s.logger.Error("Failed to publish payment event to SNS",
				zap.String("event_type", event.Type),
				zap.String("order_id", event.OrderID),
				zap.Error(err),
			)
		}
	}
}
