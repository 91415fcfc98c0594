package models

// Earning credits a reviewer for one completed review. The unique index
// on ReviewID is the exactly-once guarantee backing recordEarning.
type Earning struct {
	BaseModel
	ReviewerID string `gorm:"not null;index"`
	ReviewID   string `gorm:"not null;uniqueIndex"`
	Amount     int64  `gorm:"not null;check:amount > 0"`
	Type       string `gorm:"type:varchar(30);default:'review'"`
	CreatedBy  string `gorm:"not null"`
}

const (
	EarningTypeReview = "review"
	EarningTypeBonus  = "bonus"
)
