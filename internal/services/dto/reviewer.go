package dto

import "amplifyd_backend/internal/models"

// ======================
// Request DTOs
// ======================

type CreateReviewerProfileRequest struct {
	Name       string               `json:"name" validate:"required,max=120"`
	Genres     []string             `json:"genres" validate:"required,min=1,dive,max=60"`
	Turnaround string               `json:"turnaround" validate:"omitempty,max=60"`
	Packages   []ReviewPackageInput `json:"packages" validate:"required,min=1,dive"`
}

type ReviewPackageInput struct {
	PackageKey   string   `json:"id" validate:"required,max=60"`
	Name         string   `json:"name" validate:"required,max=120"`
	PriceInCents int64    `json:"price_in_cents" validate:"required,gt=0"`
	TrackCount   int      `json:"track_count" validate:"omitempty,min=1"`
	Formats      []string `json:"formats" validate:"required,min=1,dive,is-review-format"`
}

// ======================
// Response DTOs
// ======================

type ReviewerResponse struct {
	UserID       string                  `json:"id"`
	Name         string                  `json:"name"`
	Genres       []string                `json:"genres"`
	Turnaround   string                  `json:"turnaround"`
	TotalEarned  int64                   `json:"total_earned"`
	TotalReviews int                     `json:"total_reviews"`
	Packages     []ReviewPackageResponse `json:"packages"`
}

type ReviewPackageResponse struct {
	PackageKey   string   `json:"id"`
	Name         string   `json:"name"`
	PriceInCents int64    `json:"price_in_cents"`
	TrackCount   int      `json:"track_count"`
	Formats      []string `json:"formats"`
}

func NewReviewerResponse(p *models.ReviewerProfile) *ReviewerResponse {
	resp := &ReviewerResponse{
		UserID:       p.UserID,
		Name:         p.Name,
		Genres:       p.Genres,
		Turnaround:   p.Turnaround,
		TotalEarned:  p.TotalEarned,
		TotalReviews: p.TotalReviews,
	}
	for _, pkg := range p.Packages {
		resp.Packages = append(resp.Packages, ReviewPackageResponse{
			PackageKey:   pkg.PackageKey,
			Name:         pkg.Name,
			PriceInCents: pkg.PriceInCents,
			TrackCount:   pkg.TrackCount,
			Formats:      pkg.Formats,
		})
	}
	return resp
}
