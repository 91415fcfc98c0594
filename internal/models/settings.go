package models

// AppSettings is a single mutable row read by the registration flow and
// written only by admins.
type AppSettings struct {
	BaseModel
	ApplicationMode ApplicationMode `gorm:"type:varchar(20);default:'open'"`
}
