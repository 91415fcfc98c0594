package dto

import (
	"time"

	"amplifyd_backend/internal/models"
)

type ReferralCodeResponse struct {
	ID        string                    `json:"id"`
	Code      string                    `json:"code"`
	Status    models.ReferralCodeStatus `json:"status"`
	CreatedAt time.Time                 `json:"created_at"`
	ExpiresAt time.Time                 `json:"expires_at"`
}

func NewReferralCodeResponse(rc *models.ReferralCode) *ReferralCodeResponse {
	return &ReferralCodeResponse{
		ID:        rc.ID,
		Code:      rc.Code,
		Status:    rc.Status,
		CreatedAt: rc.CreatedAt,
		ExpiresAt: rc.ExpiresAt,
	}
}
