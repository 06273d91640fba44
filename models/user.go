package models

import "time"

// User is a registered storefront account.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	Email        string `gorm:"uniqueIndex;size:254;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (u *User) TableName() string {
	return "users"
}
