package dto

import (
	"time"

	"amplifyd_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type SubmitReviewRequest struct {
	Scores       map[string]int `json:"scores" validate:"required,min=1,dive,min=0,max=10"`
	Strengths    string         `json:"strengths" validate:"omitempty,max=4000"`
	Improvements string         `json:"improvements" validate:"omitempty,max=4000"`
	Summary      string         `json:"summary" validate:"required,max=4000"`
}

// ======================
// Response DTOs
// ======================

type ReviewResponse struct {
	ID           string         `json:"id"`
	SubmissionID string         `json:"submission_id"`
	ReviewerID   string         `json:"reviewer_id"`
	Scores       map[string]int `json:"scores"`
	OverallScore float64        `json:"overall_score"`
	Strengths    string         `json:"strengths"`
	Improvements string         `json:"improvements"`
	Summary      string         `json:"summary"`
	AccessToken  string         `json:"access_token,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func NewReviewResponse(r *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:           r.ID,
		SubmissionID: r.SubmissionID,
		ReviewerID:   r.ReviewerID,
		Scores:       r.Scores,
		OverallScore: r.OverallScore,
		Strengths:    r.Strengths,
		Improvements: r.Improvements,
		Summary:      r.Summary,
		CreatedAt:    r.CreatedAt,
	}
}
