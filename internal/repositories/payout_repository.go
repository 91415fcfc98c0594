package repositories

import (
	"errors"

	"amplifyd_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPayoutNotFound       = errors.New("payout not found")
	ErrPayoutBadTransition  = errors.New("payout status cannot move backwards")
	ErrReviewAlreadyPaidOut = errors.New("review already referenced by another payout")
)

type PayoutRepository interface {
	Create(db *gorm.DB, payout *models.Payout) error
	FindByID(db *gorm.DB, id string) (*models.Payout, error)
	FindByReviewer(db *gorm.DB, reviewerID string) ([]models.Payout, error)

	// AdvanceStatus performs a guarded from -> to update; zero rows
	// affected means the payout was not in the expected state.
	AdvanceStatus(db *gorm.DB, id string, from, to models.PayoutStatus) (bool, error)

	// ReviewIDsPaidOut returns the subset of reviewIDs already referenced
	// by any payout of this reviewer.
	ReviewIDsPaidOut(db *gorm.DB, reviewerID string, reviewIDs []string) ([]string, error)
}

type payoutRepository struct{}

func NewPayoutRepository() PayoutRepository {
	return &payoutRepository{}
}

func (r *payoutRepository) Create(db *gorm.DB, payout *models.Payout) error {
	// association rows in payout.Reviews are inserted in the same statement batch
	return db.Create(payout).Error
}

func (r *payoutRepository) FindByID(db *gorm.DB, id string) (*models.Payout, error) {
	var payout models.Payout
	err := db.Preload("Reviews", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&payout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) FindByReviewer(db *gorm.DB, reviewerID string) ([]models.Payout, error) {
	var payouts []models.Payout
	err := db.Preload("Reviews").
		Where("reviewer_id = ?", reviewerID).
		Order("date DESC").
		Find(&payouts).Error
	return payouts, err
}

func (r *payoutRepository) AdvanceStatus(db *gorm.DB, id string, from, to models.PayoutStatus) (bool, error) {
	result := db.Model(&models.Payout{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected > 0, result.Error
}

func (r *payoutRepository) ReviewIDsPaidOut(db *gorm.DB, reviewerID string, reviewIDs []string) ([]string, error) {
	if len(reviewIDs) == 0 {
		return nil, nil
	}

	var ids []string
	err := db.Model(&models.PayoutReview{}).
		Joins("JOIN payouts ON payouts.id = payout_reviews.payout_id").
		Where("payouts.reviewer_id = ? AND payout_reviews.review_id IN ?", reviewerID, reviewIDs).
		Pluck("payout_reviews.review_id", &ids).Error
	return ids, err
}
