package models

import "time"

// Payout is an admin-created batch disbursement. Review association lives
// in PayoutReview rows, not on the earnings themselves.
type Payout struct {
	BaseModel
	ReviewerID    string       `gorm:"not null;index"`
	Amount        int64        `gorm:"not null;check:amount > 0"`
	Status        PayoutStatus `gorm:"type:varchar(20);default:'pending';index"`
	Date          time.Time    `gorm:"default:now()"`
	PaymentMethod string       `gorm:"not null"`

	// Relations
	Reviews []PayoutReview `gorm:"foreignKey:PayoutID"`
}

type PayoutReview struct {
	BaseModel
	PayoutID string `gorm:"not null;index"`
	ReviewID string `gorm:"not null;index"`
	Fee      int64  `gorm:"not null"`
	Position int    `gorm:"not null;default:0"`
}
