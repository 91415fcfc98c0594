package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSuccessURL = "http://localhost:3000/payment/success"

func checkoutRequest() *dto.CheckoutSessionRequest {
	return &dto.CheckoutSessionRequest{
		PriceInCents:       2500,
		ProductName:        "Standard review",
		ProductDescription: "Written review within 3 days",
		Metadata:           testMetadata(),
	}
}

func reviewerWithPackage() *fakeReviewerRepo {
	reviewers := newFakeReviewerRepo()
	_ = reviewers.Create(nil, &models.ReviewerProfile{
		UserID: "reviewer-1",
		Name:   "DJ Kura",
		Packages: []models.ReviewPackage{{
			ReviewerID:   "reviewer-1",
			PackageKey:   "standard",
			Name:         "Standard",
			PriceInCents: 2500,
			TrackCount:   1,
			Formats:      []string{models.ReviewFormatWritten},
		}},
	})
	return reviewers
}

func newCheckoutFixture(provider *fakeCheckoutProvider) (*fakeTransactionRepo, CheckoutService) {
	txns := newFakeTransactionRepo()
	submissions := NewSubmissionService(txns, newFakeSubmissionRepo(), newFakeReviewerRepo(), &fakeNotifier{})

	if provider == nil {
		return txns, NewCheckoutService(nil, txns, reviewerWithPackage(), submissions, testSuccessURL)
	}
	return txns, NewCheckoutService(provider, txns, reviewerWithPackage(), submissions, testSuccessURL)
}

func TestCreateCheckoutSessionLive(t *testing.T) {
	provider := &fakeCheckoutProvider{}
	txns, svc := newCheckoutFixture(provider)

	resp, err := svc.CreateCheckoutSession(context.Background(), nil, checkoutRequest())
	require.NoError(t, err)
	assert.False(t, resp.Demo)
	assert.Contains(t, resp.URL, "checkout.example.com")
	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, "Nova Waves", provider.lastMeta["artistName"])
	assert.Equal(t, "standard", provider.lastMeta["packageId"])

	// The backstop transaction and optimistic submission are written
	// before the redirect URL is returned.
	txn, err := txns.FindBySessionID(nil, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	require.NotNil(t, txn.SubmissionID)
}

func TestCreateCheckoutSessionPriceMismatch(t *testing.T) {
	_, svc := newCheckoutFixture(&fakeCheckoutProvider{})

	req := checkoutRequest()
	req.PriceInCents = 100 // package costs 2500
	_, err := svc.CreateCheckoutSession(context.Background(), nil, req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestCreateCheckoutSessionUnknownPackage(t *testing.T) {
	_, svc := newCheckoutFixture(&fakeCheckoutProvider{})

	req := checkoutRequest()
	req.Metadata.PackageKey = "deluxe"
	_, err := svc.CreateCheckoutSession(context.Background(), nil, req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestCreateCheckoutSessionProviderFailure(t *testing.T) {
	provider := &fakeCheckoutProvider{fail: errors.New("api unreachable")}
	txns, svc := newCheckoutFixture(provider)

	_, err := svc.CreateCheckoutSession(context.Background(), nil, checkoutRequest())
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
	assert.Empty(t, txns.bySession, "no transaction without a session")
}

func TestCreateCheckoutSessionDemoMode(t *testing.T) {
	txns, svc := newCheckoutFixture(nil)

	resp, err := svc.CreateCheckoutSession(context.Background(), nil, checkoutRequest())
	require.NoError(t, err)
	assert.True(t, resp.Demo)
	assert.True(t, strings.HasPrefix(resp.URL, testSuccessURL+"?demo=1"))
	assert.True(t, strings.HasPrefix(resp.SessionID, "demo_cs_"))

	txn, err := txns.FindBySessionID(nil, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
	require.NotNil(t, txn.SubmissionID, "demo payments settle synchronously")
}
