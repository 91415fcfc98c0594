package services

import (
	"context"
	"errors"

	"amplifyd_backend/internal/auth"
	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	// SubmitReview records the assigned reviewer's one-and-only review of
	// a submission and moves the submission out of the queue.
	SubmitReview(ctx context.Context, db *gorm.DB, reviewerID, submissionID string, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error)

	// GetByAccessToken serves a review to the artist via the opaque token
	// embedded in the notification email.
	GetByAccessToken(ctx context.Context, db *gorm.DB, token string) (*dto.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo     repositories.ReviewRepository
	submissionRepo repositories.SubmissionRepository
	notifier       NotificationService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	submissionRepo repositories.SubmissionRepository,
	notifier NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		submissionRepo: submissionRepo,
		notifier:       notifier,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, db *gorm.DB, reviewerID, submissionID string, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	sub, err := s.submissionRepo.FindByID(db, submissionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, apperrors.ErrNotFound(err, "reviews", "Submission not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if sub.ReviewerID != reviewerID {
		return nil, apperrors.NewForbiddenError("This submission is assigned to another reviewer")
	}
	if sub.Status == models.SubmissionStatusReviewed || sub.Status == models.SubmissionStatusRejected {
		return nil, apperrors.ErrSubmissionAlreadyReviewed
	}

	accessToken, err := auth.GenerateOpaqueToken(32)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	review := &models.Review{
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		Scores:       req.Scores,
		OverallScore: overallScore(req.Scores),
		Strengths:    req.Strengths,
		Improvements: req.Improvements,
		Summary:      req.Summary,
		AccessToken:  accessToken,
	}
	if err := s.reviewRepo.Create(db, review); err != nil {
		if errors.Is(err, repositories.ErrReviewExists) {
			return nil, apperrors.ErrSubmissionAlreadyReviewed
		}
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.submissionRepo.MarkReviewed(db, submissionID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !updated {
		logger.CtxWarn(ctx, "submission already left the queue", "submission_id", submissionID)
	}

	logger.CtxInfo(ctx, "review submitted",
		"review_id", review.ID,
		"submission_id", submissionID,
		"reviewer_id", reviewerID,
		"overall_score", review.OverallScore)

	s.notifier.NotifyReviewCompleted(ctx, db, sub, review)

	resp := dto.NewReviewResponse(review)
	resp.AccessToken = review.AccessToken
	return resp, nil
}

func (s *reviewService) GetByAccessToken(ctx context.Context, db *gorm.DB, token string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByAccessToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err, "reviews", "Review not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewReviewResponse(review), nil
}

// overallScore averages the per-criterion scores to one decimal place.
func overallScore(scores map[string]int) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum int
	for _, v := range scores {
		sum += v
	}
	avg := float64(sum) / float64(len(scores))
	return float64(int(avg*10+0.5)) / 10
}
