package repositories

import (
	"errors"

	"amplifyd_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewerNotFound = errors.New("reviewer not found")
	ErrPackageNotFound  = errors.New("review package not found")
)

type ReviewerRepository interface {
	Create(db *gorm.DB, profile *models.ReviewerProfile) error
	FindByUserID(db *gorm.DB, userID string) (*models.ReviewerProfile, error)
	List(db *gorm.DB, limit, offset int) ([]models.ReviewerProfile, error)
	FindPackage(db *gorm.DB, reviewerUserID, packageKey string) (*models.ReviewPackage, error)
}

type reviewerRepository struct{}

func NewReviewerRepository() ReviewerRepository {
	return &reviewerRepository{}
}

func (r *reviewerRepository) Create(db *gorm.DB, profile *models.ReviewerProfile) error {
	return db.Create(profile).Error
}

func (r *reviewerRepository) FindByUserID(db *gorm.DB, userID string) (*models.ReviewerProfile, error) {
	var profile models.ReviewerProfile
	err := db.Preload("Packages", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewerNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *reviewerRepository) List(db *gorm.DB, limit, offset int) ([]models.ReviewerProfile, error) {
	var profiles []models.ReviewerProfile
	err := db.Preload("Packages", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Limit(limit).Offset(offset).Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}

// FindPackage resolves a reviewer's package by its client-facing key.
func (r *reviewerRepository) FindPackage(db *gorm.DB, reviewerUserID, packageKey string) (*models.ReviewPackage, error) {
	var profile models.ReviewerProfile
	if err := db.Select("id").First(&profile, "user_id = ?", reviewerUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewerNotFound
		}
		return nil, err
	}

	var pkg models.ReviewPackage
	err := db.First(&pkg, "reviewer_id = ? AND package_key = ?", profile.ID, packageKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}
