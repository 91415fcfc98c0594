package models

// ReviewerProfile is one-to-one with a User of role reviewer. Monetary
// aggregates are integer cents, updated only inside the earnings
// transaction.
type ReviewerProfile struct {
	BaseModel
	UserID       string   `gorm:"uniqueIndex;not null"`
	Name         string   `gorm:"not null"`
	Genres       []string `gorm:"serializer:json;type:jsonb"`
	Turnaround   string
	TotalEarned  int64 `gorm:"not null;default:0"`
	TotalReviews int   `gorm:"not null;default:0"`

	// Relations
	Packages []ReviewPackage `gorm:"foreignKey:ReviewerID"`
}

// ReviewPackage is one purchasable review offering. PackageKey is the
// client-facing id, unique within a reviewer.
type ReviewPackage struct {
	BaseModel
	ReviewerID   string   `gorm:"not null;index;uniqueIndex:ux_review_packages_reviewer_key,priority:1"`
	PackageKey   string   `gorm:"not null;uniqueIndex:ux_review_packages_reviewer_key,priority:2"`
	Name         string   `gorm:"not null"`
	PriceInCents int64    `gorm:"not null;check:price_in_cents > 0"`
	TrackCount   int      `gorm:"not null;default:1"`
	Formats      []string `gorm:"serializer:json;type:jsonb"`
	Position     int      `gorm:"not null;default:0"`
}

const (
	ReviewFormatWritten = "written"
	ReviewFormatAudio   = "audio"
	ReviewFormatChart   = "chart"
	ReviewFormatVideo   = "video"
)
