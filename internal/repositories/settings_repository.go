package repositories

import (
	"errors"

	"amplifyd_backend/internal/models"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns the single settings row, creating the default if the
	// table is empty.
	Get(db *gorm.DB) (*models.AppSettings, error)
	UpdateMode(db *gorm.DB, mode models.ApplicationMode) error
}

type settingsRepository struct{}

func NewSettingsRepository() SettingsRepository {
	return &settingsRepository{}
}

func (r *settingsRepository) Get(db *gorm.DB) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := db.Order("created_at ASC").First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.AppSettings{ApplicationMode: models.ApplicationModeOpen}
	if err := db.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) UpdateMode(db *gorm.DB, mode models.ApplicationMode) error {
	settings, err := r.Get(db)
	if err != nil {
		return err
	}
	return db.Model(settings).Update("application_mode", mode).Error
}
