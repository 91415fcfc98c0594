package models

// Review is created once by the assigned reviewer and immutable after
// that. AccessToken lets the (possibly anonymous) artist read it without
// an account.
type Review struct {
	BaseModel
	SubmissionID string         `gorm:"not null;uniqueIndex"`
	ReviewerID   string         `gorm:"not null;index"`
	Scores       map[string]int `gorm:"serializer:json;type:jsonb"`
	OverallScore float64        `gorm:"not null"`
	Strengths    string
	Improvements string
	Summary      string
	AccessToken  string `gorm:"not null;uniqueIndex"`
}
