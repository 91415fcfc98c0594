package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"amplifyd_backend/internal/auth"
	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	// Register creates an account. When the application runs invite-only
	// a valid referral code is required and consumed.
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)

	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
}

type authService struct {
	userRepo     repositories.UserRepository
	referralRepo repositories.ReferralCodeRepository
	settingsRepo repositories.SettingsRepository
	referrals    ReferralService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	referralRepo repositories.ReferralCodeRepository,
	settingsRepo repositories.SettingsRepository,
	referrals ReferralService,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		referralRepo: referralRepo,
		settingsRepo: settingsRepo,
		referrals:    referrals,
	}
}

func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	settings, err := s.settingsRepo.Get(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var referredBy *string
	inviteOnly := settings.ApplicationMode == models.ApplicationModeInviteOnly
	if inviteOnly {
		if req.ReferralCode == "" {
			return nil, apperrors.ErrReferralCodeInvalid
		}
		// Early usability check so we reject before creating the account.
		// The atomic consume below still decides the winner on a race.
		code, err := s.referralRepo.FindByCode(db, req.ReferralCode)
		if err != nil {
			if errors.Is(err, repositories.ErrReferralCodeNotFound) {
				return nil, apperrors.ErrReferralCodeInvalid
			}
			return nil, apperrors.InternalError(err)
		}
		if code.Status != models.ReferralCodeStatusActive || time.Now().After(code.ExpiresAt) {
			return nil, apperrors.ErrReferralCodeInvalid
		}
		referredBy = &code.CreatedBy
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         req.Role,
		Status:       models.UserStatusActive,
		ReferredBy:   referredBy,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrEmailExists) {
			return nil, apperrors.ErrAlreadyExists("auth", "An account with this email already exists")
		}
		return nil, apperrors.InternalError(err)
	}

	if inviteOnly {
		if err := s.referrals.RedeemCode(ctx, db, req.ReferralCode, user.ID); err != nil {
			// Lost the consume race after the usability check. The account
			// stays but is parked until an admin reactivates it.
			if suspendErr := s.userRepo.UpdateStatus(db, user.ID, models.UserStatusSuspended); suspendErr != nil {
				logger.CtxWithError(ctx, "could not suspend user after failed redemption", suspendErr, "user_id", user.ID)
			}
			return nil, err
		}
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", user.Role, "invite_only", inviteOnly)
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}
	if user.Status == models.UserStatusSuspended || user.Status == models.UserStatusBanned {
		return nil, apperrors.NewForbiddenError("This account is not active")
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "auth", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}
