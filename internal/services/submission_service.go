package services

import (
	"context"
	"errors"
	"time"

	"amplifyd_backend/internal/auth"
	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SubmissionService interface {
	// MaterializeSubmission turns confirmed payment metadata into the one
	// durable Submission for the session. Idempotent: the claim lives on
	// the owning Transaction, so calling it again for the same session
	// returns the submission created the first time.
	MaterializeSubmission(ctx context.Context, db *gorm.DB, meta dto.SubmissionMetadata, sessionID, paymentIntentID string, amount int64, currency string) (*models.Submission, error)

	GetByTrackingToken(ctx context.Context, db *gorm.DB, token string) (*dto.TrackingResponse, error)
	ListPendingForReviewer(ctx context.Context, db *gorm.DB, reviewerUserID string) ([]*dto.SubmissionResponse, error)
}

type submissionService struct {
	transactionRepo repositories.TransactionRepository
	submissionRepo  repositories.SubmissionRepository
	reviewerRepo    repositories.ReviewerRepository
	notifier        NotificationService
}

func NewSubmissionService(
	transactionRepo repositories.TransactionRepository,
	submissionRepo repositories.SubmissionRepository,
	reviewerRepo repositories.ReviewerRepository,
	notifier NotificationService,
) SubmissionService {
	return &submissionService{
		transactionRepo: transactionRepo,
		submissionRepo:  submissionRepo,
		reviewerRepo:    reviewerRepo,
		notifier:        notifier,
	}
}

func (s *submissionService) MaterializeSubmission(ctx context.Context, db *gorm.DB, meta dto.SubmissionMetadata, sessionID, paymentIntentID string, amount int64, currency string) (*models.Submission, error) {
	if err := validateMetadata(meta); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, apperrors.ErrInvalidArgument("submissions", "payment session id is required")
	}

	trackingToken, err := auth.GenerateOpaqueToken(32)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if currency == "" {
		currency = "usd"
	}
	candidate := &models.Submission{
		ArtistName:      meta.ArtistName,
		SongTitle:       meta.SongTitle,
		ContactEmail:    meta.ContactEmail,
		AudioURL:        meta.AudioURL,
		Genre:           meta.Genre,
		ReviewerID:      meta.ReviewerID,
		PackageKey:      meta.PackageKey,
		TrackingToken:   trackingToken,
		Status:          models.SubmissionStatusPending,
		SubmittedAt:     time.Now(),
		PaymentIntentID: paymentIntentID,
		StripeSessionID: sessionID,
		Amount:          amount,
		Currency:        currency,
	}

	sub, created, err := s.transactionRepo.ClaimSubmission(db, sessionID, candidate)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.ErrNotFound(err, "submissions", "No transaction for this payment session")
		}
		return nil, apperrors.InternalError(err)
	}

	if !created {
		logger.CtxInfo(ctx, "submission already materialized",
			"session_id", sessionID, "submission_id", sub.ID)
		return sub, nil
	}

	logger.CtxInfo(ctx, "submission materialized",
		"session_id", sessionID, "submission_id", sub.ID, "reviewer_id", sub.ReviewerID)

	// Reviewer notification is best-effort: a missing reviewer profile or
	// a failed email never unwinds the submission.
	s.notifier.NotifyNewSubmission(ctx, db, sub)

	return sub, nil
}

func (s *submissionService) GetByTrackingToken(ctx context.Context, db *gorm.DB, token string) (*dto.TrackingResponse, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidArgument("submissions", "tracking token is required")
	}

	sub, err := s.submissionRepo.FindByTrackingToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, apperrors.ErrNotFound(err, "submissions", "Submission not found")
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewSubmissionResponse(sub)
	resp.ContactEmail = "" // not exposed on the anonymous tracking surface
	tracking := &dto.TrackingResponse{Submission: resp}
	if sub.Review != nil {
		tracking.Review = dto.NewReviewResponse(sub.Review)
	}
	return tracking, nil
}

func (s *submissionService) ListPendingForReviewer(ctx context.Context, db *gorm.DB, reviewerUserID string) ([]*dto.SubmissionResponse, error) {
	subs, err := s.submissionRepo.FindPendingByReviewer(db, reviewerUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		resp := dto.NewSubmissionResponse(&subs[i])
		resp.TrackingToken = "" // reviewers never see the artist's token
		responses = append(responses, resp)
	}
	return responses, nil
}

func validateMetadata(meta dto.SubmissionMetadata) error {
	missing := func(field string) error {
		return apperrors.ErrInvalidArgument("submissions", "missing required field: "+field)
	}
	switch {
	case meta.ArtistName == "":
		return missing("artistName")
	case meta.SongTitle == "":
		return missing("songTitle")
	case meta.ContactEmail == "":
		return missing("contactEmail")
	case meta.AudioURL == "":
		return missing("audioUrl")
	case meta.Genre == "":
		return missing("genre")
	case meta.ReviewerID == "":
		return missing("reviewerId")
	case meta.PackageKey == "":
		return missing("packageId")
	}
	return nil
}
