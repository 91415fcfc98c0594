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

const referralCodeTTL = 24 * time.Hour

type ReferralService interface {
	// GenerateCode issues a single-use invite code for the admin, subject
	// to per-hour and per-day rate limits.
	GenerateCode(ctx context.Context, db *gorm.DB, adminID string) (*dto.ReferralCodeResponse, error)

	// RedeemCode consumes an active code during registration. The update
	// is atomic so a code can never admit two users.
	RedeemCode(ctx context.Context, db *gorm.DB, code, userID string) error

	// ExpireStale sweeps active codes past their 24h window.
	ExpireStale(ctx context.Context, db *gorm.DB) (int64, error)
}

type referralService struct {
	referralRepo repositories.ReferralCodeRepository
	maxPerHour   int
	maxPerDay    int
}

func NewReferralService(referralRepo repositories.ReferralCodeRepository, maxPerHour, maxPerDay int) ReferralService {
	return &referralService{
		referralRepo: referralRepo,
		maxPerHour:   maxPerHour,
		maxPerDay:    maxPerDay,
	}
}

func (s *referralService) GenerateCode(ctx context.Context, db *gorm.DB, adminID string) (*dto.ReferralCodeResponse, error) {
	now := time.Now()

	hourly, err := s.referralRepo.CountByCreatorSince(db, adminID, now.Add(-time.Hour))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if hourly >= int64(s.maxPerHour) {
		return nil, apperrors.ErrLimitExceeded("referrals", "hourly invite limit reached, try again later")
	}
	daily, err := s.referralRepo.CountByCreatorSince(db, adminID, now.Add(-24*time.Hour))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if daily >= int64(s.maxPerDay) {
		return nil, apperrors.ErrLimitExceeded("referrals", "daily invite limit reached, try again tomorrow")
	}

	value, err := auth.GenerateReferralCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	code := &models.ReferralCode{
		Code:      value,
		Status:    models.ReferralCodeStatusActive,
		CreatedBy: adminID,
		ExpiresAt: now.Add(referralCodeTTL),
	}
	if err := s.referralRepo.Create(db, code); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "referral code issued", "code_id", code.ID, "created_by", adminID)
	return dto.NewReferralCodeResponse(code), nil
}

func (s *referralService) RedeemCode(ctx context.Context, db *gorm.DB, code, userID string) error {
	used, err := s.referralRepo.MarkUsed(db, code, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !used {
		// Distinguish unknown from consumed/expired only in the log; the
		// caller sees one generic rejection either way.
		if _, findErr := s.referralRepo.FindByCode(db, code); errors.Is(findErr, repositories.ErrReferralCodeNotFound) {
			logger.CtxWarn(ctx, "referral redemption with unknown code")
		} else {
			logger.CtxWarn(ctx, "referral redemption with unusable code")
		}
		return apperrors.ErrReferralCodeInvalid
	}
	logger.CtxInfo(ctx, "referral code redeemed", "user_id", userID)
	return nil
}

func (s *referralService) ExpireStale(ctx context.Context, db *gorm.DB) (int64, error) {
	expired, err := s.referralRepo.ExpireStale(db)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	if expired > 0 {
		logger.CtxInfo(ctx, "expired stale referral codes", "count", expired)
	}
	return expired, nil
}
