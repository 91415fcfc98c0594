package models

import "time"

// ReferralCode is a single-use invite issued by an admin, valid for 24h.
type ReferralCode struct {
	BaseModel
	Code           string             `gorm:"not null;uniqueIndex"`
	AssociatedUser *string            `gorm:"index"`
	Status         ReferralCodeStatus `gorm:"type:varchar(20);default:'active';index"`
	CreatedBy      string             `gorm:"not null;index"`
	ExpiresAt      time.Time          `gorm:"not null;index"`
}
