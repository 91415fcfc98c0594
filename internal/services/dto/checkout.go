package dto

// SubmissionMetadata is the explicit, exhaustively-validated payload that
// travels through the checkout redirect. The processor echoes it back on
// webhook events; it is re-validated there rather than trusted.
type SubmissionMetadata struct {
	ArtistName   string `json:"artist_name" validate:"required,max=200"`
	SongTitle    string `json:"song_title" validate:"required,max=200"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	AudioURL     string `json:"audio_url" validate:"required,url"`
	Genre        string `json:"genre" validate:"required,max=60"`
	ReviewerID   string `json:"reviewer_id" validate:"required"`
	PackageKey   string `json:"package_id" validate:"required"`
}

// ToMap flattens metadata for the processor's key/value metadata bag.
func (m SubmissionMetadata) ToMap() map[string]string {
	return map[string]string{
		"artistName":   m.ArtistName,
		"songTitle":    m.SongTitle,
		"contactEmail": m.ContactEmail,
		"audioUrl":     m.AudioURL,
		"genre":        m.Genre,
		"reviewerId":   m.ReviewerID,
		"packageId":    m.PackageKey,
	}
}

// MetadataFromMap rebuilds the payload from the processor's echoed bag.
func MetadataFromMap(m map[string]string) SubmissionMetadata {
	return SubmissionMetadata{
		ArtistName:   m["artistName"],
		SongTitle:    m["songTitle"],
		ContactEmail: m["contactEmail"],
		AudioURL:     m["audioUrl"],
		Genre:        m["genre"],
		ReviewerID:   m["reviewerId"],
		PackageKey:   m["packageId"],
	}
}

type CheckoutSessionRequest struct {
	PriceInCents       int64              `json:"price_in_cents" validate:"required,gt=0"`
	ProductName        string             `json:"product_name" validate:"required,max=200"`
	ProductDescription string             `json:"product_description" validate:"omitempty,max=500"`
	Metadata           SubmissionMetadata `json:"metadata" validate:"required"`
}

type CheckoutSessionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
	Demo      bool   `json:"demo,omitempty"`
}
