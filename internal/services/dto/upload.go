package dto

import "time"

// ======================
// Request DTOs
// ======================

type UploadLocationRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`

	// CallerID is set by the server from auth when present; anonymous
	// submissions are a product requirement, so it may stay empty.
	CallerID string `json:"-"`
}

// ======================
// Response DTOs
// ======================

type UploadLocationResponse struct {
	Path         string    `json:"path"`
	UploadURL    string    `json:"upload_url"`
	ContentType  string    `json:"content_type"`
	TrackingSeed string    `json:"tracking_seed,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}
