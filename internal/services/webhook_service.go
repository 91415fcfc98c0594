package services

import (
	"context"
	"errors"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/payments"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type WebhookService interface {
	// HandleEvent reconciles one verified processor event. A returned
	// error signals the caller to answer non-2xx so the processor
	// redelivers; nil means the event is fully absorbed, including
	// events we deliberately ignore.
	HandleEvent(ctx context.Context, db *gorm.DB, event *payments.Event) error
}

type webhookService struct {
	transactionRepo repositories.TransactionRepository
	submissions     SubmissionService
}

func NewWebhookService(transactionRepo repositories.TransactionRepository, submissions SubmissionService) WebhookService {
	return &webhookService{
		transactionRepo: transactionRepo,
		submissions:     submissions,
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, db *gorm.DB, event *payments.Event) error {
	switch event.Type {
	case payments.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, db, event)
	case payments.EventCheckoutExpired:
		return s.handleCheckoutExpired(ctx, db, event)
	case payments.EventPaymentFailed:
		return s.handlePaymentFailed(ctx, db, event)
	default:
		logger.CtxDebug(ctx, "ignoring webhook event", "event_type", event.Type, "event_id", event.ID)
		return nil
	}
}

func (s *webhookService) handleCheckoutCompleted(ctx context.Context, db *gorm.DB, event *payments.Event) error {
	txn, err := s.transactionRepo.FindBySessionID(db, event.SessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			// Session we never issued, or the backstop write was lost and
			// the session predates it. Nothing to reconcile; acknowledging
			// avoids an endless redelivery loop.
			logger.CtxWarn(ctx, "completed event for unknown session", "session_id", event.SessionID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	if updated, err := s.transactionRepo.MarkCompleted(db, event.SessionID, event.PaymentIntentID); err != nil {
		return apperrors.InternalError(err)
	} else if !updated {
		logger.CtxDebug(ctx, "transaction already settled", "session_id", event.SessionID, "status", txn.Status)
	}

	if txn.SubmissionID != nil {
		return nil // already materialized, redelivery is a no-op
	}
	if txn.Status == models.TransactionStatusCancelled {
		logger.CtxWarn(ctx, "completed event for cancelled session", "session_id", event.SessionID)
		return nil
	}

	meta := s.eventMetadata(event, txn)
	amount := event.AmountTotal
	if amount == 0 {
		amount = txn.Amount
	}
	if _, err := s.submissions.MaterializeSubmission(ctx, db, meta, event.SessionID, event.PaymentIntentID, amount, event.Currency); err != nil {
		// Payment is settled but the submission record is not. Flag the
		// transaction and report failure so the processor redelivers.
		if _, markErr := s.transactionRepo.MarkFailed(db, event.SessionID, err.Error()); markErr != nil {
			logger.CtxWithError(ctx, "could not flag failed materialization", markErr, "session_id", event.SessionID)
		}
		logger.CtxWithError(ctx, "submission materialization failed", err, "session_id", event.SessionID)
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *webhookService) handleCheckoutExpired(ctx context.Context, db *gorm.DB, event *payments.Event) error {
	updated, err := s.transactionRepo.MarkCancelled(db, event.SessionID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if updated {
		logger.CtxInfo(ctx, "checkout session expired", "session_id", event.SessionID)
	} else {
		logger.CtxDebug(ctx, "expired event with nothing to cancel", "session_id", event.SessionID)
	}
	return nil
}

func (s *webhookService) handlePaymentFailed(ctx context.Context, db *gorm.DB, event *payments.Event) error {
	if event.PaymentIntentID == "" {
		return nil
	}
	updated, err := s.transactionRepo.MarkFailedByPaymentIntent(db, event.PaymentIntentID, event.FailureMessage)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if updated {
		logger.CtxInfo(ctx, "payment failed", "payment_intent_id", event.PaymentIntentID)
	} else {
		logger.CtxDebug(ctx, "payment failure for unknown or settled intent", "payment_intent_id", event.PaymentIntentID)
	}
	return nil
}

// eventMetadata prefers the bag echoed by the processor and falls back
// to the pending transaction for fields the bag is missing.
func (s *webhookService) eventMetadata(event *payments.Event, txn *models.Transaction) dto.SubmissionMetadata {
	meta := dto.MetadataFromMap(event.Metadata)
	if meta.ArtistName == "" {
		meta.ArtistName = txn.ArtistName
	}
	if meta.SongTitle == "" {
		meta.SongTitle = txn.SongTitle
	}
	if meta.ContactEmail == "" {
		meta.ContactEmail = txn.ContactEmail
	}
	if meta.AudioURL == "" {
		meta.AudioURL = txn.AudioURL
	}
	if meta.Genre == "" {
		meta.Genre = txn.Genre
	}
	if meta.ReviewerID == "" {
		meta.ReviewerID = txn.ReviewerID
	}
	if meta.PackageKey == "" {
		meta.PackageKey = txn.PackageKey
	}
	return meta
}
