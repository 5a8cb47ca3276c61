package models

// AdminUser is a back-office account allowed to browse payments and leads.
type AdminUser struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
}
