package services

import (
	"context"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SettingsService interface {
	Get(ctx context.Context, db *gorm.DB) (*dto.SettingsResponse, error)
	UpdateMode(ctx context.Context, db *gorm.DB, mode models.ApplicationMode) (*dto.SettingsResponse, error)
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
}

func NewSettingsService(settingsRepo repositories.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get(ctx context.Context, db *gorm.DB) (*dto.SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.SettingsResponse{ApplicationMode: settings.ApplicationMode}, nil
}

func (s *settingsService) UpdateMode(ctx context.Context, db *gorm.DB, mode models.ApplicationMode) (*dto.SettingsResponse, error) {
	if err := s.settingsRepo.UpdateMode(db, mode); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "application mode updated", "mode", mode)
	return &dto.SettingsResponse{ApplicationMode: mode}, nil
}
