package services

import (
	"context"

	"amplifyd_backend/internal/email"
	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/repositories"

	"gorm.io/gorm"
)

// NotificationService sends best-effort emails. Failures are logged and
// swallowed; nothing in the pipeline depends on delivery.
type NotificationService interface {
	NotifyNewSubmission(ctx context.Context, db *gorm.DB, sub *models.Submission)
	NotifyReviewCompleted(ctx context.Context, db *gorm.DB, sub *models.Submission, review *models.Review)
}

type notificationService struct {
	provider email.Provider
	userRepo repositories.UserRepository
	baseURL  string
}

func NewNotificationService(provider email.Provider, userRepo repositories.UserRepository, baseURL string) NotificationService {
	return &notificationService{
		provider: provider,
		userRepo: userRepo,
		baseURL:  baseURL,
	}
}

func (s *notificationService) NotifyNewSubmission(ctx context.Context, db *gorm.DB, sub *models.Submission) {
	reviewer, err := s.userRepo.FindByID(db, sub.ReviewerID)
	if err != nil {
		logger.CtxWarn(ctx, "reviewer lookup failed for submission notification",
			"reviewer_id", sub.ReviewerID, "submission_id", sub.ID, "error", err.Error())
		return
	}

	body, err := email.Render("submission_received", email.TemplateData{
		RecipientName: reviewer.Name,
		SongTitle:     sub.SongTitle,
		ArtistName:    sub.ArtistName,
		ReviewURL:     s.baseURL + "/reviewer/queue",
	})
	if err != nil {
		logger.CtxWithError(ctx, "render submission notification", err)
		return
	}

	if err := s.provider.Send(&email.Email{
		To:       []string{reviewer.Email},
		Subject:  "New track waiting for your review",
		HTMLBody: body,
	}); err != nil {
		logger.CtxWarn(ctx, "submission notification not delivered",
			"reviewer_id", sub.ReviewerID, "error", err.Error())
	}
}

func (s *notificationService) NotifyReviewCompleted(ctx context.Context, db *gorm.DB, sub *models.Submission, review *models.Review) {
	body, err := email.Render("review_completed", email.TemplateData{
		ArtistName:  sub.ArtistName,
		SongTitle:   sub.SongTitle,
		TrackingURL: s.baseURL + "/track/" + sub.TrackingToken,
	})
	if err != nil {
		logger.CtxWithError(ctx, "render review notification", err)
		return
	}

	if err := s.provider.Send(&email.Email{
		To:       []string{sub.ContactEmail},
		Subject:  "Your track has been reviewed",
		HTMLBody: body,
	}); err != nil {
		logger.CtxWarn(ctx, "review notification not delivered",
			"submission_id", sub.ID, "error", err.Error())
	}
}
