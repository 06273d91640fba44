package models

import (
	"context"

	"gorm.io/gorm"
)

type WishlistsRepository struct {
	db *gorm.DB
}

func NewWishlistsRepository(db *gorm.DB) *WishlistsRepository {
	return &WishlistsRepository{db: db}
}

func (r *WishlistsRepository) GetOrCreate(ctx context.Context, userID uint) (*Wishlist, error) {
	var wishlist Wishlist
	err := r.db.WithContext(ctx).
		Where(Wishlist{UserID: userID}).
		FirstOrCreate(&wishlist).Error
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// Products returns the active saved products for a wishlist.
func (r *WishlistsRepository) Products(ctx context.Context, wishlistID uint) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Joins("JOIN wishlist_products ON wishlist_products.product_id = products.id").
		Where("wishlist_products.wishlist_id = ? AND products.is_active = ?", wishlistID, true).
		Preload("Category").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Toggle adds the product when absent and removes it when present, returning
// whether it is in the wishlist afterwards.
func (r *WishlistsRepository) Toggle(ctx context.Context, wishlist *Wishlist, product *Product) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("wishlist_products").
		Where("wishlist_id = ? AND product_id = ?", wishlist.ID, product.ID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	assoc := r.db.WithContext(ctx).Model(wishlist).Association("Products")
	if count > 0 {
		return false, assoc.Delete(product)
	}
	return true, assoc.Append(product)
}
