package repositories

import (
	"errors"

	"amplifyd_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Submission, error)
	FindByTrackingToken(db *gorm.DB, token string) (*models.Submission, error)
	FindPendingByReviewer(db *gorm.DB, reviewerID string) ([]models.Submission, error)

	// MarkReviewed transitions a submission out of the review queue.
	// Guarded so a reviewed submission cannot be re-reviewed.
	MarkReviewed(db *gorm.DB, id string) (bool, error)
}

type submissionRepository struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) FindByID(db *gorm.DB, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) FindByTrackingToken(db *gorm.DB, token string) (*models.Submission, error) {
	var sub models.Submission
	err := db.Preload("Review").First(&sub, "tracking_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) FindPendingByReviewer(db *gorm.DB, reviewerID string) ([]models.Submission, error) {
	var subs []models.Submission
	err := db.Where("reviewer_id = ? AND status IN ?",
		reviewerID,
		[]models.SubmissionStatus{models.SubmissionStatusPending, models.SubmissionStatusInProgress}).
		Order("submitted_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepository) MarkReviewed(db *gorm.DB, id string) (bool, error) {
	result := db.Model(&models.Submission{}).
		Where("id = ? AND status IN ?",
			id,
			[]models.SubmissionStatus{models.SubmissionStatusPending, models.SubmissionStatusInProgress}).
		Update("status", models.SubmissionStatusReviewed)
	return result.RowsAffected > 0, result.Error
}
