package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	Name         string     `gorm:"not null"`
	PasswordHash string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'"`
	ReferredBy   *string    `gorm:"index"`

	// Relations
	ReviewerProfile *ReviewerProfile `gorm:"foreignKey:UserID"`
}
