package repositories

import (
	"errors"

	"amplifyd_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists for this submission")
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindBySubmissionID(db *gorm.DB, submissionID string) (*models.Review, error)
	FindByAccessToken(db *gorm.DB, token string) (*models.Review, error)
}

type reviewRepository struct{}

func NewReviewRepository() ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *models.Review) error {
	if err := db.Create(review).Error; err != nil {
		// submission_id carries a unique index; one review per submission
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReviewExists
		}
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindBySubmissionID(db *gorm.DB, submissionID string) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByAccessToken(db *gorm.DB, token string) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "access_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}
