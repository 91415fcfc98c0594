package models

// Transaction tracks one checkout session from pending to a terminal
// outcome. StripeSessionID is the idempotency key for webhook
// reconciliation; SubmissionID is set exactly once when materialization
// succeeds.
type Transaction struct {
	BaseModel
	StripeSessionID       string            `gorm:"not null;uniqueIndex"`
	StripePaymentIntentID string            `gorm:"index"`
	ArtistName            string            `gorm:"not null"`
	SongTitle             string            `gorm:"not null"`
	ContactEmail          string            `gorm:"not null"`
	AudioURL              string            `gorm:"not null"`
	Genre                 string
	Amount                int64             `gorm:"not null"`
	Currency              string            `gorm:"type:varchar(3);default:'usd'"`
	Status                TransactionStatus `gorm:"type:varchar(20);default:'pending';index"`
	ReviewerID            string            `gorm:"not null;index"`
	PackageKey            string            `gorm:"not null"`
	SubmissionID          *string           `gorm:"uniqueIndex"`
	FailureReason         string
}
