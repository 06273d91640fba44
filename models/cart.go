package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a user's shopping cart, one per user, created lazily on first add.
type Cart struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) TableName() string {
	return "carts"
}

// CartItem is one (product, quantity) line in a cart.
// At most one line exists per (cart, product); re-adding increments quantity.
type CartItem struct {
	ID        uint    `gorm:"primaryKey"`
	CartID    uint    `gorm:"uniqueIndex:idx_cart_product;not null"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_product;not null"`
	Product   Product `gorm:"foreignKey:ProductID"`
	Quantity  int     `gorm:"not null"`
	CreatedAt time.Time
}

func (i *CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is quantity times the product's current effective price.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotals holds derived cart sums. They are recomputed on every read so
// price and discount changes are reflected immediately.
type CartTotals struct {
	TotalQuantity int
	TotalPrice    decimal.Decimal
}

// TotalsOf computes the quantity and price totals over the given lines.
func TotalsOf(items []CartItem) CartTotals {
	totals := CartTotals{TotalPrice: decimal.Zero}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.TotalPrice = totals.TotalPrice.Add(item.LineTotal())
	}
	return totals
}
