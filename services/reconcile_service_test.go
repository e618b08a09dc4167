package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"payment-callback-service/apperrors"
	"payment-callback-service/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakePaymentRepo struct {
	payments   map[string]*models.Payment
	gets       int
	updates    int
	failUpdate error
}

func newFakePaymentRepo(payments ...*models.Payment) *fakePaymentRepo {
	m := make(map[string]*models.Payment)
	for _, p := range payments {
		m[p.OrderID] = p
	}
	return &fakePaymentRepo{payments: m}
}

func (f *fakePaymentRepo) GetByOrderID(_ context.Context, orderID string) (*models.Payment, error) {
	f.gets++
	p, ok := f.payments[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) UpdateByOrderID(_ context.Context, orderID string, updates map[string]interface{}) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	p, ok := f.payments[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.updates++
	if v, ok := updates["transaction_id"].(string); ok {
		p.TransactionID = &v
	}
	if v, ok := updates["status"].(models.PaymentStatus); ok {
		p.Status = v
	}
	if v, ok := updates["transaction_status"].(string); ok {
		p.TransactionStatus = v
	}
	p.Timestamp = time.Now()
	return nil
}

type fakeOrderRepo struct {
	statuses map[string]models.PaymentStatus // keyed userID + "/" + orderID
	updates  int
	failErr  error
}

func newFakeOrderRepo(keys ...string) *fakeOrderRepo {
	m := make(map[string]models.PaymentStatus)
	for _, k := range keys {
		m[k] = models.StatusPending
	}
	return &fakeOrderRepo{statuses: m}
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, userID, orderID string, status models.PaymentStatus) error {
	if f.failErr != nil {
		return f.failErr
	}
	key := userID + "/" + orderID
	if _, ok := f.statuses[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.statuses[key] = status
	f.updates++
	return nil
}

type fakePublisher struct {
	events  []models.PaymentEvent
	failErr error
}

func (f *fakePublisher) Publish(event models.PaymentEvent) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.events = append(f.events, event)
	return nil
}

func pendingPayment(orderID, userID string) *models.Payment {
	return &models.Payment{
		OrderID:  orderID,
		UserID:   userID,
		OrderRef: orderID,
		Status:   models.StatusPending,
	}
}

func newService(payments *fakePaymentRepo, orders *fakeOrderRepo, pub *fakePublisher) *ReconcileService {
	return NewReconcileService(payments, orders, pub, nil, "", zap.NewNop())
}

// --- Tests ---

func TestReconcile_MissingFields(t *testing.T) {
	payments := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	svc := newService(payments, orders, &fakePublisher{})

	cases := []models.MidtransNotification{
		{OrderID: "", TransactionStatus: "settlement"},
		{OrderID: "A1", TransactionStatus: ""},
	}
	for _, n := range cases {
		_, err := svc.Reconcile(context.Background(), n)
		assert.Error(t, err)

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidArgument, appErr.Code)
	}

	// Validation happens before any record access
	assert.Equal(t, 0, payments.gets)
	assert.Equal(t, 0, payments.updates)
	assert.Equal(t, 0, orders.updates)
}

func TestReconcile_PaymentNotFound(t *testing.T) {
	payments := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	svc := newService(payments, orders, &fakePublisher{})

	_, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID:           "missing",
		TransactionStatus: "settlement",
	})

	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Equal(t, 0, payments.updates)
	assert.Equal(t, 0, orders.updates)
}

func TestReconcile_Settlement(t *testing.T) {
	payments := newFakePaymentRepo(pendingPayment("A1", "u1"))
	orders := newFakeOrderRepo("u1/A1")
	pub := &fakePublisher{}
	svc := newService(payments, orders, pub)

	result, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID:           "A1",
		TransactionStatus: "settlement",
		TransactionID:     "T1",
	})

	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "A1", result.OrderID)
	assert.Equal(t, models.StatusSuccess, result.Status)

	stored := payments.payments["A1"]
	assert.Equal(t, models.StatusSuccess, stored.Status)
	assert.Equal(t, "settlement", stored.TransactionStatus)
	if assert.NotNil(t, stored.TransactionID) {
		assert.Equal(t, "T1", *stored.TransactionID)
	}
	assert.Equal(t, models.StatusSuccess, orders.statuses["u1/A1"])

	if assert.Len(t, pub.events, 1) {
		assert.Equal(t, "payment_success", pub.events[0].Type)
		assert.Equal(t, "A1", pub.events[0].OrderID)
		assert.Equal(t, "u1", pub.events[0].UserID)
	}
}

func TestReconcile_RedeliveryIsIdempotent(t *testing.T) {
	payments := newFakePaymentRepo(pendingPayment("A1", "u1"))
	orders := newFakeOrderRepo("u1/A1")
	svc := newService(payments, orders, &fakePublisher{})

	n := models.MidtransNotification{OrderID: "A1", TransactionStatus: "settlement", TransactionID: "T1"}

	first, err := svc.Reconcile(context.Background(), n)
	assert.NoError(t, err)

	second, err := svc.Reconcile(context.Background(), n)
	assert.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, models.StatusSuccess, payments.payments["A1"].Status)
	assert.Equal(t, models.StatusSuccess, orders.statuses["u1/A1"])
}

func TestReconcile_PendingAfterTerminalIsIgnored(t *testing.T) {
	payments := newFakePaymentRepo(pendingPayment("A1", "u1"))
	orders := newFakeOrderRepo("u1/A1")
	svc := newService(payments, orders, &fakePublisher{})

	_, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID: "A1", TransactionStatus: "settlement",
	})
	assert.NoError(t, err)

	writesBefore := payments.updates
	result, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID: "A1", TransactionStatus: "pending",
	})

	assert.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, writesBefore, payments.updates)
	assert.Equal(t, models.StatusSuccess, payments.payments["A1"].Status)
}

func TestReconcile_TerminalConflictKeepsStoredStatus(t *testing.T) {
	payments := newFakePaymentRepo(pendingPayment("A1", "u1"))
	orders := newFakeOrderRepo("u1/A1")
	svc := newService(payments, orders, &fakePublisher{})

	_, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID: "A1", TransactionStatus: "settlement",
	})
	assert.NoError(t, err)

	result, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID: "A1", TransactionStatus: "deny",
	})

	assert.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, models.StatusSuccess, payments.payments["A1"].Status)
}

func TestReconcile_InconsistentPaymentData(t *testing.T) {
	p := pendingPayment("A1", "")
	payments := newFakePaymentRepo(p)
	orders := newFakeOrderRepo()
	svc := newService(payments, orders, &fakePublisher{})

	_, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID: "A1", TransactionStatus: "settlement",
	})

	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeFailedPrecondition, appErr.Code)

	// The payment write already happened; the order write never ran.
	assert.Equal(t, 1, payments.updates)
	assert.Equal(t, 0, orders.updates)
}

func TestReconcile_OrderWriteFailureThenRetryConverges(t *testing.T) {
	payments := newFakePaymentRepo(pendingPayment("A1", "u1"))
	orders := newFakeOrderRepo() // no order row yet
	pub := &fakePublisher{}
	svc := newService(payments, orders, pub)

	n := models.MidtransNotification{OrderID: "A1", TransactionStatus: "settlement", TransactionID: "T1"}

	_, err := svc.Reconcile(context.Background(), n)

	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodePartialWrite, appErr.Code)

	// No rollback of the committed payment write, and no event published.
	assert.Equal(t, models.StatusSuccess, payments.payments["A1"].Status)
	assert.Len(t, pub.events, 0)

	// The gateway redelivers once the order row exists; state converges.
	orders.statuses["u1/A1"] = models.StatusPending
	result, err := svc.Reconcile(context.Background(), n)
	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, models.StatusSuccess, orders.statuses["u1/A1"])
}

func TestReconcile_PublishFailureDoesNotFailWebhook(t *testing.T) {
	payments := newFakePaymentRepo(pendingPayment("A1", "u1"))
	orders := newFakeOrderRepo("u1/A1")
	pub := &fakePublisher{failErr: errors.New("broker down")}
	svc := newService(payments, orders, pub)

	result, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID: "A1", TransactionStatus: "settlement",
	})

	assert.NoError(t, err)
	assert.True(t, result.Applied)
}

func TestReconcile_UnknownStatusMapsToPending(t *testing.T) {
	payments := newFakePaymentRepo(pendingPayment("A1", "u1"))
	orders := newFakeOrderRepo("u1/A1")
	svc := newService(payments, orders, &fakePublisher{})

	result, err := svc.Reconcile(context.Background(), models.MidtransNotification{
		OrderID: "A1", TransactionStatus: "authorize",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, result.Status)
	assert.Equal(t, "authorize", payments.payments["A1"].TransactionStatus)
}
