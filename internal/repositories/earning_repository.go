package repositories

import (
	"errors"

	"amplifyd_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEarningExists   = errors.New("earning already recorded for this review")
	ErrEarningNotFound = errors.New("earning not found")
)

type EarningRepository interface {
	// CreateForReview inserts the earning and bumps the reviewer's
	// running totals in one database transaction. The uniqueness check on
	// review_id runs inside the same transaction (plus a unique index as
	// the concurrent-writer backstop), so at most one earning can exist
	// per review.
	CreateForReview(db *gorm.DB, earning *models.Earning) error

	ExistsForReview(db *gorm.DB, reviewID string) (bool, error)
	FindByReviewID(db *gorm.DB, reviewID string) (*models.Earning, error)
	ListByReviewer(db *gorm.DB, reviewerID string, limit, offset int) ([]models.Earning, error)
}

type earningRepository struct{}

func NewEarningRepository() EarningRepository {
	return &earningRepository{}
}

func (r *earningRepository) CreateForReview(db *gorm.DB, earning *models.Earning) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Earning{}).
			Where("review_id = ?", earning.ReviewID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrEarningExists
		}

		if err := tx.Create(earning).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEarningExists
			}
			return err
		}

		result := tx.Model(&models.ReviewerProfile{}).
			Where("user_id = ?", earning.ReviewerID).
			Updates(map[string]interface{}{
				"total_earned":  gorm.Expr("total_earned + ?", earning.Amount),
				"total_reviews": gorm.Expr("total_reviews + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReviewerNotFound
		}
		return nil
	})
}

func (r *earningRepository) ExistsForReview(db *gorm.DB, reviewID string) (bool, error) {
	var count int64
	err := db.Model(&models.Earning{}).Where("review_id = ?", reviewID).Count(&count).Error
	return count > 0, err
}

func (r *earningRepository) FindByReviewID(db *gorm.DB, reviewID string) (*models.Earning, error) {
	var earning models.Earning
	if err := db.First(&earning, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEarningNotFound
		}
		return nil, err
	}
	return &earning, nil
}

func (r *earningRepository) ListByReviewer(db *gorm.DB, reviewerID string, limit, offset int) ([]models.Earning, error) {
	var earnings []models.Earning
	err := db.Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&earnings).Error
	return earnings, err
}
