package models

import "time"

// Submission is the durable record of one paid track in the review
// pipeline. Created only by the materializer; status is mutated only by
// the review flow.
type Submission struct {
	BaseModel
	ArtistName      string           `gorm:"not null"`
	SongTitle       string           `gorm:"not null"`
	ContactEmail    string           `gorm:"not null;index"`
	AudioURL        string           `gorm:"not null"`
	Genre           string           `gorm:"not null"`
	ReviewerID      string           `gorm:"not null;index"`
	PackageKey      string           `gorm:"not null"`
	TrackingToken   string           `gorm:"not null;uniqueIndex"`
	Status          SubmissionStatus `gorm:"type:varchar(20);default:'pending';index"`
	SubmittedAt     time.Time        `gorm:"default:now()"`
	PaymentIntentID string           `gorm:"index"`
	StripeSessionID string           `gorm:"index"`
	Amount          int64            `gorm:"not null;default:0"`
	Currency        string           `gorm:"type:varchar(3);default:'usd'"`

	// Relations
	Review *Review `gorm:"foreignKey:SubmissionID"`
}
