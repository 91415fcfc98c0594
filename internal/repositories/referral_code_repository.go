package repositories

import (
	"errors"
	"time"

	"amplifyd_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReferralCodeNotFound = errors.New("referral code not found")
	ErrReferralCodeNotUsable = errors.New("referral code is not active")
)

type ReferralCodeRepository interface {
	Create(db *gorm.DB, code *models.ReferralCode) error
	FindByCode(db *gorm.DB, code string) (*models.ReferralCode, error)

	// CountByCreatorSince counts codes an admin issued after the cutoff,
	// for rolling-window rate limits.
	CountByCreatorSince(db *gorm.DB, createdBy string, since time.Time) (int64, error)

	// MarkUsed atomically consumes an active, unexpired code. Zero rows
	// affected means the code was already used, expired or unknown.
	MarkUsed(db *gorm.DB, code, userID string) (bool, error)

	// ExpireStale flips active codes past their expiry; returns how many.
	ExpireStale(db *gorm.DB) (int64, error)
}

type referralCodeRepository struct{}

func NewReferralCodeRepository() ReferralCodeRepository {
	return &referralCodeRepository{}
}

func (r *referralCodeRepository) Create(db *gorm.DB, code *models.ReferralCode) error {
	return db.Create(code).Error
}

func (r *referralCodeRepository) FindByCode(db *gorm.DB, code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := db.First(&rc, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralCodeNotFound
		}
		return nil, err
	}
	return &rc, nil
}

func (r *referralCodeRepository) CountByCreatorSince(db *gorm.DB, createdBy string, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.ReferralCode{}).
		Where("created_by = ? AND created_at >= ?", createdBy, since).
		Count(&count).Error
	return count, err
}

func (r *referralCodeRepository) MarkUsed(db *gorm.DB, code, userID string) (bool, error) {
	result := db.Model(&models.ReferralCode{}).
		Where("code = ? AND status = ? AND expires_at > ?", code, models.ReferralCodeStatusActive, time.Now()).
		Updates(map[string]interface{}{
			"status":          models.ReferralCodeStatusUsed,
			"associated_user": userID,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *referralCodeRepository) ExpireStale(db *gorm.DB) (int64, error) {
	result := db.Model(&models.ReferralCode{}).
		Where("status = ? AND expires_at <= ?", models.ReferralCodeStatusActive, time.Now()).
		Update("status", models.ReferralCodeStatusExpired)
	return result.RowsAffected, result.Error
}
