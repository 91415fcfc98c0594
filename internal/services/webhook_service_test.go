package services

import (
	"context"
	"errors"
	"testing"

	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedEvent(sessionID string) *payments.Event {
	return &payments.Event{
		ID:              "evt_1",
		Type:            payments.EventCheckoutCompleted,
		SessionID:       sessionID,
		PaymentIntentID: "pi_1",
		Metadata:        testMetadata().ToMap(),
		AmountTotal:     2500,
		Currency:        "usd",
	}
}

func newWebhookFixture() (*fakeTransactionRepo, *fakeNotifier, WebhookService) {
	txns := newFakeTransactionRepo()
	notifier := &fakeNotifier{}
	submissions := NewSubmissionService(txns, newFakeSubmissionRepo(), newFakeReviewerRepo(), notifier)
	return txns, notifier, NewWebhookService(txns, submissions)
}

func TestCheckoutCompletedMaterializesSubmission(t *testing.T) {
	txns, notifier, svc := newWebhookFixture()
	require.NoError(t, txns.Create(nil, pendingTransaction("cs_1")))

	err := svc.HandleEvent(context.Background(), nil, completedEvent("cs_1"))
	require.NoError(t, err)

	txn, err := txns.FindBySessionID(nil, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
	require.NotNil(t, txn.SubmissionID)
	assert.Equal(t, 1, notifier.newSubmission)
}

func TestCheckoutCompletedRedeliveryIsNoOp(t *testing.T) {
	txns, notifier, svc := newWebhookFixture()
	require.NoError(t, txns.Create(nil, pendingTransaction("cs_1")))

	require.NoError(t, svc.HandleEvent(context.Background(), nil, completedEvent("cs_1")))
	require.NoError(t, svc.HandleEvent(context.Background(), nil, completedEvent("cs_1")))

	assert.Len(t, txns.submissions, 1)
	assert.Equal(t, 1, notifier.newSubmission)
}

func TestCheckoutCompletedUnknownSessionIsAcknowledged(t *testing.T) {
	_, _, svc := newWebhookFixture()

	// Unknown sessions must not trigger processor redelivery loops.
	err := svc.HandleEvent(context.Background(), nil, completedEvent("cs_ghost"))
	assert.NoError(t, err)
}

func TestCheckoutCompletedMaterializationFailureIsRetryable(t *testing.T) {
	txns, _, svc := newWebhookFixture()
	require.NoError(t, txns.Create(nil, pendingTransaction("cs_1")))

	txns.failClaim = errors.New("connection reset")
	err := svc.HandleEvent(context.Background(), nil, completedEvent("cs_1"))
	require.Error(t, err, "processor must redeliver")

	txn, findErr := txns.FindBySessionID(nil, "cs_1")
	require.NoError(t, findErr)
	assert.Equal(t, models.TransactionStatusFailed, txn.Status)
	assert.NotEmpty(t, txn.FailureReason)

	// Redelivery after the outage recovers the payment.
	txns.failClaim = nil
	require.NoError(t, svc.HandleEvent(context.Background(), nil, completedEvent("cs_1")))

	txn, findErr = txns.FindBySessionID(nil, "cs_1")
	require.NoError(t, findErr)
	require.NotNil(t, txn.SubmissionID)
}

func TestCheckoutExpiredCancelsPendingOnly(t *testing.T) {
	txns, _, svc := newWebhookFixture()
	require.NoError(t, txns.Create(nil, pendingTransaction("cs_1")))

	expired := &payments.Event{Type: payments.EventCheckoutExpired, SessionID: "cs_1"}
	require.NoError(t, svc.HandleEvent(context.Background(), nil, expired))

	txn, err := txns.FindBySessionID(nil, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCancelled, txn.Status)

	// A completed transaction never moves backwards.
	require.NoError(t, txns.Create(nil, pendingTransaction("cs_2")))
	require.NoError(t, svc.HandleEvent(context.Background(), nil, completedEvent("cs_2")))
	require.NoError(t, svc.HandleEvent(context.Background(), nil, &payments.Event{Type: payments.EventCheckoutExpired, SessionID: "cs_2"}))

	txn, err = txns.FindBySessionID(nil, "cs_2")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
}

func TestPaymentFailedMarksTransaction(t *testing.T) {
	txns, _, svc := newWebhookFixture()
	txn := pendingTransaction("cs_1")
	txn.StripePaymentIntentID = "pi_1"
	require.NoError(t, txns.Create(nil, txn))

	event := &payments.Event{
		Type:            payments.EventPaymentFailed,
		PaymentIntentID: "pi_1",
		FailureMessage:  "card_declined",
	}
	require.NoError(t, svc.HandleEvent(context.Background(), nil, event))

	got, err := txns.FindBySessionID(nil, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, got.Status)
	assert.Equal(t, "card_declined", got.FailureReason)
}

func TestUnrecognizedEventIsIgnored(t *testing.T) {
	_, _, svc := newWebhookFixture()

	err := svc.HandleEvent(context.Background(), nil, &payments.Event{Type: "customer.created"})
	assert.NoError(t, err)
}
