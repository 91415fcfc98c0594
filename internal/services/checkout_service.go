package services

import (
	"context"
	"errors"
	"fmt"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/payments"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutService interface {
	// CreateCheckoutSession builds a processor-hosted checkout session
	// carrying the submission metadata and records a pending Transaction
	// keyed by the session id. With no processor configured it simulates
	// the payment synchronously (demo mode).
	CreateCheckoutSession(ctx context.Context, db *gorm.DB, req *dto.CheckoutSessionRequest) (*dto.CheckoutSessionResponse, error)
}

type checkoutService struct {
	provider        payments.CheckoutProvider // nil => demo mode
	transactionRepo repositories.TransactionRepository
	reviewerRepo    repositories.ReviewerRepository
	submissions     SubmissionService
	successURL      string
}

func NewCheckoutService(
	provider payments.CheckoutProvider,
	transactionRepo repositories.TransactionRepository,
	reviewerRepo repositories.ReviewerRepository,
	submissions SubmissionService,
	successURL string,
) CheckoutService {
	return &checkoutService{
		provider:        provider,
		transactionRepo: transactionRepo,
		reviewerRepo:    reviewerRepo,
		submissions:     submissions,
		successURL:      successURL,
	}
}

func (s *checkoutService) CreateCheckoutSession(ctx context.Context, db *gorm.DB, req *dto.CheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	if req.PriceInCents <= 0 {
		return nil, apperrors.ErrInvalidArgument("payments", "price must be a positive amount in cents")
	}
	if err := validateMetadata(req.Metadata); err != nil {
		return nil, err
	}

	// The quoted price must match the reviewer's package; the metadata
	// bag is client-supplied and not trusted.
	pkg, err := s.reviewerRepo.FindPackage(db, req.Metadata.ReviewerID, req.Metadata.PackageKey)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewerNotFound) || errors.Is(err, repositories.ErrPackageNotFound) {
			return nil, apperrors.ErrInvalidArgument("payments", "unknown reviewer or package")
		}
		return nil, apperrors.InternalError(err)
	}
	if pkg.PriceInCents != req.PriceInCents {
		return nil, apperrors.ErrInvalidArgument("payments", "price does not match the selected package")
	}

	if s.provider == nil {
		return s.createDemoSession(ctx, db, req)
	}
	return s.createLiveSession(ctx, db, req)
}

func (s *checkoutService) createLiveSession(ctx context.Context, db *gorm.DB, req *dto.CheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutParams{
		PriceInCents:  req.PriceInCents,
		Currency:      "usd",
		ProductName:   req.ProductName,
		ProductDesc:   req.ProductDescription,
		CustomerEmail: req.Metadata.ContactEmail,
		Metadata:      req.Metadata.ToMap(),
	})
	if err != nil {
		logger.CtxWithError(ctx, "checkout session creation failed", err)
		return nil, apperrors.ErrExternalService(err, "payments", "Could not start checkout")
	}

	// Everything below is a resilience backstop. The webhook reconciler
	// is the authoritative path, so failures are logged, never surfaced
	// to the artist, and never block the redirect.
	if err := s.recordPendingTransaction(db, session, req); err != nil {
		logger.CtxWithError(ctx, "backstop transaction write failed", err,
			"session_id", session.ID)
	} else if _, err := s.submissions.MaterializeSubmission(ctx, db, req.Metadata, session.ID, session.PaymentIntentID, req.PriceInCents, ""); err != nil {
		logger.CtxWithError(ctx, "eager submission creation failed", err,
			"session_id", session.ID)
	}

	return &dto.CheckoutSessionResponse{
		URL:       session.URL,
		SessionID: session.ID,
	}, nil
}

// createDemoSession simulates a successful payment for development
// environments with no processor credential configured.
func (s *checkoutService) createDemoSession(ctx context.Context, db *gorm.DB, req *dto.CheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	sessionID := "demo_cs_" + uuid.NewString()
	paymentIntentID := "demo_pi_" + uuid.NewString()

	txn := s.buildTransaction(sessionID, req)
	txn.Status = models.TransactionStatusCompleted
	txn.StripePaymentIntentID = paymentIntentID
	if err := s.transactionRepo.Create(db, txn); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.submissions.MaterializeSubmission(ctx, db, req.Metadata, sessionID, paymentIntentID, req.PriceInCents, ""); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "demo checkout completed", "session_id", sessionID)
	return &dto.CheckoutSessionResponse{
		URL:       fmt.Sprintf("%s?demo=1&session_id=%s", s.successURL, sessionID),
		SessionID: sessionID,
		Demo:      true,
	}, nil
}

func (s *checkoutService) recordPendingTransaction(db *gorm.DB, session *payments.CheckoutSession, req *dto.CheckoutSessionRequest) error {
	txn := s.buildTransaction(session.ID, req)
	txn.StripePaymentIntentID = session.PaymentIntentID
	return s.transactionRepo.Create(db, txn)
}

func (s *checkoutService) buildTransaction(sessionID string, req *dto.CheckoutSessionRequest) *models.Transaction {
	return &models.Transaction{
		StripeSessionID: sessionID,
		ArtistName:      req.Metadata.ArtistName,
		SongTitle:       req.Metadata.SongTitle,
		ContactEmail:    req.Metadata.ContactEmail,
		AudioURL:        req.Metadata.AudioURL,
		Genre:           req.Metadata.Genre,
		Amount:          req.PriceInCents,
		Currency:        "usd",
		Status:          models.TransactionStatusPending,
		ReviewerID:      req.Metadata.ReviewerID,
		PackageKey:      req.Metadata.PackageKey,
	}
}
