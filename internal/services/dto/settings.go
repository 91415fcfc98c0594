package dto

import "amplifyd_backend/internal/models"

type UpdateSettingsRequest struct {
	ApplicationMode string `json:"application_mode" validate:"required,is-application-mode"`
}

type SettingsResponse struct {
	ApplicationMode models.ApplicationMode `json:"application_mode"`
}
