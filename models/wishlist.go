package models

import "time"

// Wishlist is a user's saved-products set, one per user.
type Wishlist struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	Products  []Product `gorm:"many2many:wishlist_products"`
	CreatedAt time.Time
}

func (w *Wishlist) TableName() string {
	return "wishlists"
}
