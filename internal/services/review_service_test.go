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

func submitReviewRequest() *dto.SubmitReviewRequest {
	return &dto.SubmitReviewRequest{
		Scores:       map[string]int{"production": 8, "songwriting": 7, "vocals": 9},
		Strengths:    "Tight low end.",
		Improvements: "Vocal sits slightly behind the mix.",
		Summary:      "A confident release.",
	}
}

func newReviewFixture() (*fakeSubmissionRepo, *fakeReviewRepo, *fakeNotifier, ReviewService) {
	subs := newFakeSubmissionRepo()
	reviews := newFakeReviewRepo()
	notifier := &fakeNotifier{}
	return subs, reviews, notifier, NewReviewService(reviews, subs, notifier)
}

func TestSubmitReviewHappyPath(t *testing.T) {
	subs, _, notifier, svc := newReviewFixture()
	sub := subs.add(&models.Submission{
		ReviewerID:    "reviewer-1",
		TrackingToken: "tok-1",
		Status:        models.SubmissionStatusPending,
	})

	resp, err := svc.SubmitReview(context.Background(), nil, "reviewer-1", sub.ID, submitReviewRequest())
	require.NoError(t, err)
	assert.Equal(t, 8.0, resp.OverallScore)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.SubmissionStatusReviewed, sub.Status)
	assert.Equal(t, 1, notifier.reviewDone)
}

func TestSubmitReviewWrongReviewer(t *testing.T) {
	subs, _, _, svc := newReviewFixture()
	sub := subs.add(&models.Submission{
		ReviewerID: "reviewer-1",
		Status:     models.SubmissionStatusPending,
	})

	_, err := svc.SubmitReview(context.Background(), nil, "intruder", sub.ID, submitReviewRequest())
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestSubmitReviewTwiceIsRejected(t *testing.T) {
	subs, _, notifier, svc := newReviewFixture()
	sub := subs.add(&models.Submission{
		ReviewerID: "reviewer-1",
		Status:     models.SubmissionStatusPending,
	})

	_, err := svc.SubmitReview(context.Background(), nil, "reviewer-1", sub.ID, submitReviewRequest())
	require.NoError(t, err)

	_, err = svc.SubmitReview(context.Background(), nil, "reviewer-1", sub.ID, submitReviewRequest())
	require.ErrorIs(t, err, apperrors.ErrSubmissionAlreadyReviewed)
	assert.Equal(t, 1, notifier.reviewDone)
}

func TestGetReviewByAccessToken(t *testing.T) {
	subs, reviews, _, svc := newReviewFixture()
	sub := subs.add(&models.Submission{
		ReviewerID: "reviewer-1",
		Status:     models.SubmissionStatusPending,
	})

	created, err := svc.SubmitReview(context.Background(), nil, "reviewer-1", sub.ID, submitReviewRequest())
	require.NoError(t, err)

	got, err := svc.GetByAccessToken(context.Background(), nil, created.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Empty(t, got.AccessToken, "token is shown only once, at creation")

	_, err = svc.GetByAccessToken(context.Background(), nil, "bogus")
	require.Error(t, err)

	_, err = reviews.FindByAccessToken(nil, created.AccessToken)
	require.NoError(t, err)
}

func TestOverallScoreRounding(t *testing.T) {
	assert.Equal(t, 0.0, overallScore(nil))
	assert.Equal(t, 7.5, overallScore(map[string]int{"a": 7, "b": 8}))
	assert.Equal(t, 7.7, overallScore(map[string]int{"a": 7, "b": 8, "c": 8}))
}
