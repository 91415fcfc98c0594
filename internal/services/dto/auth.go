package dto

import (
	"time"

	"amplifyd_backend/internal/models"
)

type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Name     string          `json:"name" validate:"required,max=120"`
	Role     models.UserRole `json:"role" validate:"required,oneof=artist reviewer"`

	// Required when the application mode is invite-only.
	ReferralCode string `json:"referral_code" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Role     models.UserRole   `json:"role"`
	Status   models.UserStatus `json:"status"`
	JoinedAt time.Time         `json:"joined_at"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		Status:   u.Status,
		JoinedAt: u.CreatedAt,
	}
}
