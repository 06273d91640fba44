package models

import "time"

// Review is a customer rating for a product, one per (product, user).
type Review struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"uniqueIndex:idx_review_product_user;not null"`
	UserID    uint   `gorm:"uniqueIndex:idx_review_product_user;not null"`
	User      User   `gorm:"foreignKey:UserID"`
	Rating    int    `gorm:"not null"`
	Title     string `gorm:"size:200;not null"`
	Comment   string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Review) TableName() string {
	return "reviews"
}
