package dto

import (
	"time"

	"amplifyd_backend/internal/models"
)

// ======================
// Response DTOs
// ======================

type SubmissionResponse struct {
	ID            string                  `json:"id"`
	ArtistName    string                  `json:"artist_name"`
	SongTitle     string                  `json:"song_title"`
	ContactEmail  string                  `json:"contact_email,omitempty"`
	AudioURL      string                  `json:"audio_url"`
	Genre         string                  `json:"genre"`
	ReviewerID    string                  `json:"reviewer_id"`
	PackageKey    string                  `json:"package_id"`
	TrackingToken string                  `json:"tracking_token,omitempty"`
	Status        models.SubmissionStatus `json:"status"`
	SubmittedAt   time.Time               `json:"submitted_at"`
	Amount        int64                   `json:"amount"`
	Currency      string                  `json:"currency"`
}

func NewSubmissionResponse(s *models.Submission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:            s.ID,
		ArtistName:    s.ArtistName,
		SongTitle:     s.SongTitle,
		ContactEmail:  s.ContactEmail,
		AudioURL:      s.AudioURL,
		Genre:         s.Genre,
		ReviewerID:    s.ReviewerID,
		PackageKey:    s.PackageKey,
		TrackingToken: s.TrackingToken,
		Status:        s.Status,
		SubmittedAt:   s.SubmittedAt,
		Amount:        s.Amount,
		Currency:      s.Currency,
	}
}

// TrackingResponse is what anonymous artists see when they look up a
// submission by tracking token. The contact email is omitted.
type TrackingResponse struct {
	Submission *SubmissionResponse `json:"submission"`
	Review     *ReviewResponse     `json:"review,omitempty"`
}
