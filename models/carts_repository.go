package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartsRepository struct {
	db *gorm.DB
}

func NewCartsRepository(db *gorm.DB) *CartsRepository {
	return &CartsRepository{db: db}
}

// GetOrCreate returns the user's cart, creating it on first use.
func (r *CartsRepository) GetOrCreate(ctx context.Context, userID uint) (*Cart, error) {
	var cart Cart
	err := r.db.WithContext(ctx).
		Where(Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ItemsWithProducts returns the cart's lines with their products loaded.
func (r *CartsRepository) ItemsWithProducts(ctx context.Context, cartID uint) ([]CartItem, error) {
	var items []CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ItemQuantity returns the quantity already in the cart for a product,
// 0 when no line exists.
func (r *CartsRepository) ItemQuantity(ctx context.Context, cartID, productID uint) (int, error) {
	var item CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return item.Quantity, nil
}

// AddItem upserts a cart line: the quantity is added to an existing line for
// the same product instead of creating a duplicate row.
func (r *CartsRepository) AddItem(ctx context.Context, cartID, productID uint, quantity int) error {
	item := CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + ?", quantity),
		}),
	}).Create(&item).Error
}

// GetItemForUser fetches a cart line only if it belongs to the user's cart.
func (r *CartsRepository) GetItemForUser(ctx context.Context, itemID, userID uint) (*CartItem, error) {
	var item CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *CartsRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *CartsRepository) RemoveItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&CartItem{}, itemID).Error
}
