package services

import (
	"context"
	"errors"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/repositories"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewerService interface {
	// CreateProfile publishes a reviewer's storefront with its packages.
	// One profile per user.
	CreateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateReviewerProfileRequest) (*dto.ReviewerResponse, error)

	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ReviewerResponse, error)
	ListReviewers(ctx context.Context, db *gorm.DB, limit, offset int) ([]dto.ReviewerResponse, error)
}

type reviewerService struct {
	reviewerRepo repositories.ReviewerRepository
	userRepo     repositories.UserRepository
}

func NewReviewerService(reviewerRepo repositories.ReviewerRepository, userRepo repositories.UserRepository) ReviewerService {
	return &reviewerService{
		reviewerRepo: reviewerRepo,
		userRepo:     userRepo,
	}
}

func (s *reviewerService) CreateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateReviewerProfileRequest) (*dto.ReviewerResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "reviewers", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleReviewer {
		return nil, apperrors.NewForbiddenError("Only reviewer accounts can publish a profile")
	}

	if _, err := s.reviewerRepo.FindByUserID(db, userID); err == nil {
		return nil, apperrors.ErrAlreadyExists("reviewers", "Profile already exists")
	} else if !errors.Is(err, repositories.ErrReviewerNotFound) {
		return nil, apperrors.InternalError(err)
	}

	seen := make(map[string]bool, len(req.Packages))
	profile := &models.ReviewerProfile{
		UserID:     userID,
		Name:       req.Name,
		Genres:     req.Genres,
		Turnaround: req.Turnaround,
	}
	for i, pkg := range req.Packages {
		if seen[pkg.PackageKey] {
			return nil, apperrors.ErrInvalidArgument("reviewers", "duplicate package id: "+pkg.PackageKey)
		}
		seen[pkg.PackageKey] = true

		trackCount := pkg.TrackCount
		if trackCount == 0 {
			trackCount = 1
		}
		profile.Packages = append(profile.Packages, models.ReviewPackage{
			ReviewerID:   userID,
			PackageKey:   pkg.PackageKey,
			Name:         pkg.Name,
			PriceInCents: pkg.PriceInCents,
			TrackCount:   trackCount,
			Formats:      pkg.Formats,
			Position:     i,
		})
	}

	if err := s.reviewerRepo.Create(db, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyExists("reviewers", "Profile already exists")
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "reviewer profile published", "user_id", userID, "packages", len(profile.Packages))
	return dto.NewReviewerResponse(profile), nil
}

func (s *reviewerService) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ReviewerResponse, error) {
	profile, err := s.reviewerRepo.FindByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewerNotFound) {
			return nil, apperrors.ErrNotFound(err, "reviewers", "Reviewer not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewReviewerResponse(profile), nil
}

func (s *reviewerService) ListReviewers(ctx context.Context, db *gorm.DB, limit, offset int) ([]dto.ReviewerResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	profiles, err := s.reviewerRepo.List(db, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]dto.ReviewerResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, *dto.NewReviewerResponse(&profiles[i]))
	}
	return responses, nil
}
