package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrdersRepository persists orders and implements CheckoutStore on top of
// database transactions and row-level locks.
type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

var _ CheckoutStore = (*OrdersRepository)(nil)

func (r *OrdersRepository) Transaction(ctx context.Context, fn func(tx CheckoutStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrdersRepository{db: tx})
	})
}

func (r *OrdersRepository) CartItemsForUser(ctx context.Context, userID uint) (*Cart, []CartItem, error) {
	var cart Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEmptyCart
		}
		return nil, nil, err
	}

	var items []CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cart.ID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, nil, err
	}
	return &cart, items, nil
}

// ProductForUpdate takes a SELECT ... FOR UPDATE lock so concurrent checkouts
// for the same product serialize on the stock row.
func (r *OrdersRepository) ProductForUpdate(ctx context.Context, id uint) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *OrdersRepository) SaveProduct(ctx context.Context, p *Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// CreateOrder inserts inside a nested transaction so a duplicate order number
// rolls back to a savepoint instead of aborting the outer transaction; the
// engine then retries with a fresh number.
func (r *OrdersRepository) CreateOrder(ctx context.Context, o *Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

func (r *OrdersRepository) ClearCart(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
}

// ListByUser returns the user's order history, newest first.
func (r *OrdersRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]Order, int64, error) {
	var orders []Order
	var total int64

	query := r.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetByNumberForUser fetches an order by number scoped to its owner. Another
// user's order number yields ErrOrderNotFound, never the order.
func (r *OrdersRepository) GetByNumberForUser(ctx context.Context, userID uint, orderNumber string) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ? AND user_id = ?", orderNumber, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
