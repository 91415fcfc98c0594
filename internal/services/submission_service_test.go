package services

import (
	"context"
	"testing"

	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() dto.SubmissionMetadata {
	return dto.SubmissionMetadata{
		ArtistName:   "Nova Waves",
		SongTitle:    "Midnight Drive",
		ContactEmail: "nova@example.com",
		AudioURL:     "https://cdn.example.com/music-uploads/temp/seed/track.mp3",
		Genre:        "synthwave",
		ReviewerID:   "reviewer-1",
		PackageKey:   "standard",
	}
}

func pendingTransaction(sessionID string) *models.Transaction {
	meta := testMetadata()
	return &models.Transaction{
		StripeSessionID: sessionID,
		ArtistName:      meta.ArtistName,
		SongTitle:       meta.SongTitle,
		ContactEmail:    meta.ContactEmail,
		AudioURL:        meta.AudioURL,
		Genre:           meta.Genre,
		ReviewerID:      meta.ReviewerID,
		PackageKey:      meta.PackageKey,
		Amount:          2500,
		Currency:        "usd",
		Status:          models.TransactionStatusPending,
	}
}

func TestMaterializeSubmissionCreatesOnce(t *testing.T) {
	txns := newFakeTransactionRepo()
	subs := newFakeSubmissionRepo()
	notifier := &fakeNotifier{}
	svc := NewSubmissionService(txns, subs, newFakeReviewerRepo(), notifier)

	require.NoError(t, txns.Create(nil, pendingTransaction("cs_1")))

	sub, err := svc.MaterializeSubmission(context.Background(), nil, testMetadata(), "cs_1", "pi_1", 2500, "usd")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.NotEmpty(t, sub.ID)
	assert.NotEmpty(t, sub.TrackingToken)
	assert.Equal(t, models.SubmissionStatusPending, sub.Status)
	assert.Equal(t, int64(2500), sub.Amount)
	assert.Equal(t, 1, notifier.newSubmission)

	txn, err := txns.FindBySessionID(nil, "cs_1")
	require.NoError(t, err)
	require.NotNil(t, txn.SubmissionID)
	assert.Equal(t, sub.ID, *txn.SubmissionID)
}

func TestMaterializeSubmissionIsIdempotent(t *testing.T) {
	txns := newFakeTransactionRepo()
	notifier := &fakeNotifier{}
	svc := NewSubmissionService(txns, newFakeSubmissionRepo(), newFakeReviewerRepo(), notifier)

	require.NoError(t, txns.Create(nil, pendingTransaction("cs_1")))

	first, err := svc.MaterializeSubmission(context.Background(), nil, testMetadata(), "cs_1", "pi_1", 2500, "usd")
	require.NoError(t, err)
	second, err := svc.MaterializeSubmission(context.Background(), nil, testMetadata(), "cs_1", "pi_1", 2500, "usd")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, txns.submissions, 1)
	assert.Equal(t, 1, notifier.newSubmission, "replay must not notify again")
}

func TestMaterializeSubmissionUnknownSession(t *testing.T) {
	svc := NewSubmissionService(newFakeTransactionRepo(), newFakeSubmissionRepo(), newFakeReviewerRepo(), &fakeNotifier{})

	_, err := svc.MaterializeSubmission(context.Background(), nil, testMetadata(), "cs_unknown", "", 2500, "usd")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestMaterializeSubmissionRejectsIncompleteMetadata(t *testing.T) {
	svc := NewSubmissionService(newFakeTransactionRepo(), newFakeSubmissionRepo(), newFakeReviewerRepo(), &fakeNotifier{})

	meta := testMetadata()
	meta.AudioURL = ""
	_, err := svc.MaterializeSubmission(context.Background(), nil, meta, "cs_1", "", 2500, "usd")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Contains(t, appErr.Message, "audioUrl")
}

func TestGetByTrackingTokenHidesContactEmail(t *testing.T) {
	subs := newFakeSubmissionRepo()
	svc := NewSubmissionService(newFakeTransactionRepo(), subs, newFakeReviewerRepo(), &fakeNotifier{})

	subs.add(&models.Submission{
		ArtistName:    "Nova Waves",
		SongTitle:     "Midnight Drive",
		ContactEmail:  "nova@example.com",
		AudioURL:      "https://cdn.example.com/x.mp3",
		Genre:         "synthwave",
		ReviewerID:    "reviewer-1",
		PackageKey:    "standard",
		TrackingToken: "tok-123",
		Status:        models.SubmissionStatusPending,
	})

	resp, err := svc.GetByTrackingToken(context.Background(), nil, "tok-123")
	require.NoError(t, err)
	assert.Empty(t, resp.Submission.ContactEmail)
	assert.Nil(t, resp.Review)
}

func TestGetByTrackingTokenIncludesReview(t *testing.T) {
	subs := newFakeSubmissionRepo()
	svc := NewSubmissionService(newFakeTransactionRepo(), subs, newFakeReviewerRepo(), &fakeNotifier{})

	sub := subs.add(&models.Submission{
		TrackingToken: "tok-123",
		ReviewerID:    "reviewer-1",
		Status:        models.SubmissionStatusReviewed,
	})
	sub.Review = &models.Review{
		SubmissionID: sub.ID,
		ReviewerID:   "reviewer-1",
		Scores:       map[string]int{"production": 8},
		OverallScore: 8,
		Summary:      "Strong mix.",
	}

	resp, err := svc.GetByTrackingToken(context.Background(), nil, "tok-123")
	require.NoError(t, err)
	require.NotNil(t, resp.Review)
	assert.Equal(t, 8.0, resp.Review.OverallScore)
}

func TestListPendingForReviewerStripsTrackingToken(t *testing.T) {
	subs := newFakeSubmissionRepo()
	svc := NewSubmissionService(newFakeTransactionRepo(), subs, newFakeReviewerRepo(), &fakeNotifier{})

	subs.add(&models.Submission{
		ReviewerID:    "reviewer-1",
		TrackingToken: "tok-abc",
		Status:        models.SubmissionStatusPending,
	})
	subs.add(&models.Submission{
		ReviewerID:    "reviewer-1",
		TrackingToken: "tok-def",
		Status:        models.SubmissionStatusReviewed,
	})

	queue, err := svc.ListPendingForReviewer(context.Background(), nil, "reviewer-1")
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Empty(t, queue[0].TrackingToken)
}
