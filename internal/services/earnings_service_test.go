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

type earningsFixture struct {
	reviewers *fakeReviewerRepo
	reviews   *fakeReviewRepo
	earnings  *fakeEarningRepo
	payouts   *fakePayoutRepo
	svc       EarningsService
}

func newEarningsFixture(t *testing.T) *earningsFixture {
	t.Helper()
	reviewers := reviewerWithPackage()
	reviews := newFakeReviewRepo()
	earnings := newFakeEarningRepo(reviewers)
	payouts := newFakePayoutRepo()
	return &earningsFixture{
		reviewers: reviewers,
		reviews:   reviews,
		earnings:  earnings,
		payouts:   payouts,
		svc:       NewEarningsService(earnings, payouts, reviews, reviewers),
	}
}

func (f *earningsFixture) addReview(t *testing.T, reviewerID string) *models.Review {
	t.Helper()
	review := &models.Review{
		SubmissionID: "sub-" + reviewerID + "-" + string(rune('a'+len(f.reviews.byID))),
		ReviewerID:   reviewerID,
		Scores:       map[string]int{"production": 8},
		OverallScore: 8,
		Summary:      "Solid.",
		AccessToken:  "tok-" + string(rune('a'+len(f.reviews.byID))),
	}
	require.NoError(t, f.reviews.Create(nil, review))
	return review
}

func TestRecordEarningCreditsReviewerOnce(t *testing.T) {
	f := newEarningsFixture(t)
	review := f.addReview(t, "reviewer-1")

	req := &dto.RecordEarningRequest{ReviewerID: "reviewer-1", ReviewID: review.ID, Amount: 1500}
	resp, err := f.svc.RecordEarning(context.Background(), nil, "admin-1", req)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.EarningsID)

	profile, err := f.reviewers.FindByUserID(nil, "reviewer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), profile.TotalEarned)
	assert.Equal(t, 1, profile.TotalReviews)

	// The second attempt must not double-credit.
	_, err = f.svc.RecordEarning(context.Background(), nil, "admin-1", req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)

	profile, err = f.reviewers.FindByUserID(nil, "reviewer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), profile.TotalEarned)
	assert.Equal(t, 1, profile.TotalReviews)
}

func TestRecordEarningUnknownReview(t *testing.T) {
	f := newEarningsFixture(t)

	_, err := f.svc.RecordEarning(context.Background(), nil, "admin-1", &dto.RecordEarningRequest{
		ReviewerID: "reviewer-1", ReviewID: "missing", Amount: 1500,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestRecordEarningOwnershipMismatch(t *testing.T) {
	f := newEarningsFixture(t)
	review := f.addReview(t, "reviewer-1")

	_, err := f.svc.RecordEarning(context.Background(), nil, "admin-1", &dto.RecordEarningRequest{
		ReviewerID: "someone-else", ReviewID: review.ID, Amount: 1500,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func recordEarning(t *testing.T, f *earningsFixture, reviewID string, amount int64) {
	t.Helper()
	_, err := f.svc.RecordEarning(context.Background(), nil, "admin-1", &dto.RecordEarningRequest{
		ReviewerID: "reviewer-1", ReviewID: reviewID, Amount: amount,
	})
	require.NoError(t, err)
}

func TestCreatePayoutSumsReviewFees(t *testing.T) {
	f := newEarningsFixture(t)
	r1 := f.addReview(t, "reviewer-1")
	r2 := f.addReview(t, "reviewer-1")
	recordEarning(t, f, r1.ID, 1500)
	recordEarning(t, f, r2.ID, 1000)

	resp, err := f.svc.CreatePayout(context.Background(), nil, "admin-1", &dto.CreatePayoutRequest{
		ReviewerID:    "reviewer-1",
		AmountInCents: 2500,
		PaymentMethod: "bank_transfer",
		ReviewIDs:     []string{r1.ID, r2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPending, resp.Status)
	assert.Equal(t, int64(2500), resp.Amount)
	require.Len(t, resp.Reviews, 2)
	assert.Equal(t, int64(1500), resp.Reviews[0].Fee)
}

func TestCreatePayoutRejectsAmountMismatch(t *testing.T) {
	f := newEarningsFixture(t)
	r1 := f.addReview(t, "reviewer-1")
	recordEarning(t, f, r1.ID, 1500)

	_, err := f.svc.CreatePayout(context.Background(), nil, "admin-1", &dto.CreatePayoutRequest{
		ReviewerID:    "reviewer-1",
		AmountInCents: 9999,
		PaymentMethod: "bank_transfer",
		ReviewIDs:     []string{r1.ID},
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestCreatePayoutRefusesAlreadyPaidReviews(t *testing.T) {
	f := newEarningsFixture(t)
	r1 := f.addReview(t, "reviewer-1")
	recordEarning(t, f, r1.ID, 1500)

	req := &dto.CreatePayoutRequest{
		ReviewerID:    "reviewer-1",
		AmountInCents: 1500,
		PaymentMethod: "bank_transfer",
		ReviewIDs:     []string{r1.ID},
	}
	_, err := f.svc.CreatePayout(context.Background(), nil, "admin-1", req)
	require.NoError(t, err)

	_, err = f.svc.CreatePayout(context.Background(), nil, "admin-1", req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
}

func TestAdvancePayoutStatusIsMonotonic(t *testing.T) {
	f := newEarningsFixture(t)
	r1 := f.addReview(t, "reviewer-1")
	recordEarning(t, f, r1.ID, 1500)

	created, err := f.svc.CreatePayout(context.Background(), nil, "admin-1", &dto.CreatePayoutRequest{
		ReviewerID:    "reviewer-1",
		AmountInCents: 1500,
		PaymentMethod: "bank_transfer",
		ReviewIDs:     []string{r1.ID},
	})
	require.NoError(t, err)

	// Skipping a stage is rejected.
	_, err = f.svc.AdvancePayoutStatus(context.Background(), nil, created.ID, models.PayoutStatusPaid)
	require.Error(t, err)

	step, err := f.svc.AdvancePayoutStatus(context.Background(), nil, created.ID, models.PayoutStatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusInTransit, step.Status)

	step, err = f.svc.AdvancePayoutStatus(context.Background(), nil, created.ID, models.PayoutStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPaid, step.Status)

	// Terminal: no further moves.
	_, err = f.svc.AdvancePayoutStatus(context.Background(), nil, created.ID, models.PayoutStatusPending)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeFailedPrecondition, appErr.Code)
}
