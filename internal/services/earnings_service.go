package services

import (
	"context"
	"errors"
	"strings"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type EarningsService interface {
	// RecordEarning credits a reviewer for a completed review. Admin-only;
	// at most one earning can ever exist per review.
	RecordEarning(ctx context.Context, db *gorm.DB, adminID string, req *dto.RecordEarningRequest) (*dto.EarningResponse, error)

	ListEarnings(ctx context.Context, db *gorm.DB, reviewerID string, limit, offset int) ([]models.Earning, error)

	// CreatePayout opens a pending batch disbursement over a set of
	// reviews, refusing any review already covered by an earlier payout.
	CreatePayout(ctx context.Context, db *gorm.DB, adminID string, req *dto.CreatePayoutRequest) (*dto.PayoutResponse, error)

	GetPayout(ctx context.Context, db *gorm.DB, id string) (*dto.PayoutResponse, error)
	ListPayouts(ctx context.Context, db *gorm.DB, reviewerID string) ([]dto.PayoutResponse, error)

	// AdvancePayoutStatus moves a payout one step forward along
	// pending -> in-transit -> paid. Backward or skipping moves are
	// rejected.
	AdvancePayoutStatus(ctx context.Context, db *gorm.DB, id string, next models.PayoutStatus) (*dto.PayoutResponse, error)
}

type earningsService struct {
	earningRepo  repositories.EarningRepository
	payoutRepo   repositories.PayoutRepository
	reviewRepo   repositories.ReviewRepository
	reviewerRepo repositories.ReviewerRepository
}

func NewEarningsService(
	earningRepo repositories.EarningRepository,
	payoutRepo repositories.PayoutRepository,
	reviewRepo repositories.ReviewRepository,
	reviewerRepo repositories.ReviewerRepository,
) EarningsService {
	return &earningsService{
		earningRepo:  earningRepo,
		payoutRepo:   payoutRepo,
		reviewRepo:   reviewRepo,
		reviewerRepo: reviewerRepo,
	}
}

func (s *earningsService) RecordEarning(ctx context.Context, db *gorm.DB, adminID string, req *dto.RecordEarningRequest) (*dto.EarningResponse, error) {
	review, err := s.reviewRepo.FindByID(db, req.ReviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err, "earnings", "Review not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if review.ReviewerID != req.ReviewerID {
		return nil, apperrors.NewForbiddenError("review does not belong to this reviewer")
	}

	earningType := req.Type
	if earningType == "" {
		earningType = models.EarningTypeReview
	}

	earning := &models.Earning{
		ReviewerID: req.ReviewerID,
		ReviewID:   req.ReviewID,
		Amount:     req.Amount,
		Type:       earningType,
		CreatedBy:  adminID,
	}
	if err := s.earningRepo.CreateForReview(db, earning); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEarningExists):
			return nil, apperrors.ErrEarningAlreadyRecorded
		case errors.Is(err, repositories.ErrReviewerNotFound):
			return nil, apperrors.ErrNotFound(err, "earnings", "Reviewer profile not found")
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	logger.CtxInfo(ctx, "earning recorded",
		"earning_id", earning.ID,
		"reviewer_id", earning.ReviewerID,
		"review_id", earning.ReviewID,
		"amount", earning.Amount)

	return &dto.EarningResponse{
		Success:    true,
		EarningsID: earning.ID,
		Amount:     earning.Amount,
		ReviewerID: earning.ReviewerID,
		ReviewID:   earning.ReviewID,
	}, nil
}

func (s *earningsService) ListEarnings(ctx context.Context, db *gorm.DB, reviewerID string, limit, offset int) ([]models.Earning, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	earnings, err := s.earningRepo.ListByReviewer(db, reviewerID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return earnings, nil
}

func (s *earningsService) CreatePayout(ctx context.Context, db *gorm.DB, adminID string, req *dto.CreatePayoutRequest) (*dto.PayoutResponse, error) {
	if _, err := s.reviewerRepo.FindByUserID(db, req.ReviewerID); err != nil {
		if errors.Is(err, repositories.ErrReviewerNotFound) {
			return nil, apperrors.ErrNotFound(err, "payouts", "Reviewer not found")
		}
		return nil, apperrors.InternalError(err)
	}

	// Each review can be disbursed once across all payouts of a reviewer.
	paid, err := s.payoutRepo.ReviewIDsPaidOut(db, req.ReviewerID, req.ReviewIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(paid) > 0 {
		return nil, apperrors.ErrAlreadyExists("payouts",
			"reviews already included in a payout: "+strings.Join(paid, ", "))
	}

	var total int64
	payout := &models.Payout{
		ReviewerID:    req.ReviewerID,
		Amount:        req.AmountInCents,
		Status:        models.PayoutStatusPending,
		PaymentMethod: req.PaymentMethod,
	}
	for i, reviewID := range req.ReviewIDs {
		review, err := s.reviewRepo.FindByID(db, reviewID)
		if err != nil {
			if errors.Is(err, repositories.ErrReviewNotFound) {
				return nil, apperrors.ErrNotFound(err, "payouts", "Review not found: "+reviewID)
			}
			return nil, apperrors.InternalError(err)
		}
		if review.ReviewerID != req.ReviewerID {
			return nil, apperrors.ErrInvalidArgument("payouts", "review "+reviewID+" does not belong to this reviewer")
		}
		// A review is disbursable only once it has a recorded earning;
		// the earning amount is the fee owed for it.
		earning, err := s.earningRepo.FindByReviewID(db, reviewID)
		if err != nil {
			if errors.Is(err, repositories.ErrEarningNotFound) {
				return nil, apperrors.ErrFailedPrecondition("payouts", "no earning recorded for review "+reviewID)
			}
			return nil, apperrors.InternalError(err)
		}
		fee := earning.Amount
		total += fee
		payout.Reviews = append(payout.Reviews, models.PayoutReview{
			ReviewID: reviewID,
			Fee:      fee,
			Position: i,
		})
	}
	if total != req.AmountInCents {
		return nil, apperrors.ErrInvalidArgument("payouts", "amount does not match the sum of review fees")
	}

	if err := s.payoutRepo.Create(db, payout); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "payout created",
		"payout_id", payout.ID,
		"reviewer_id", payout.ReviewerID,
		"amount", payout.Amount,
		"reviews", len(payout.Reviews),
		"created_by", adminID)

	return dto.NewPayoutResponse(payout), nil
}

func (s *earningsService) GetPayout(ctx context.Context, db *gorm.DB, id string) (*dto.PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, apperrors.ErrNotFound(err, "payouts", "Payout not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPayoutResponse(payout), nil
}

func (s *earningsService) ListPayouts(ctx context.Context, db *gorm.DB, reviewerID string) ([]dto.PayoutResponse, error) {
	payouts, err := s.payoutRepo.FindByReviewer(db, reviewerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]dto.PayoutResponse, 0, len(payouts))
	for i := range payouts {
		responses = append(responses, *dto.NewPayoutResponse(&payouts[i]))
	}
	return responses, nil
}

func (s *earningsService) AdvancePayoutStatus(ctx context.Context, db *gorm.DB, id string, next models.PayoutStatus) (*dto.PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, apperrors.ErrNotFound(err, "payouts", "Payout not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if !payout.Status.CanAdvanceTo(next) {
		return nil, apperrors.ErrFailedPrecondition("payouts",
			"cannot move payout from "+string(payout.Status)+" to "+string(next))
	}

	updated, err := s.payoutRepo.AdvanceStatus(db, id, payout.Status, next)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !updated {
		// Concurrent writer advanced it first.
		return nil, apperrors.ErrFailedPrecondition("payouts", "payout status changed concurrently")
	}

	logger.CtxInfo(ctx, "payout status advanced", "payout_id", id, "from", payout.Status, "to", next)
	payout.Status = next
	return dto.NewPayoutResponse(payout), nil
}
