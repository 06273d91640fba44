package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock status values for Product.StockStatus.
const (
	StockStatusInStock      = "in_stock"
	StockStatusOutOfStock   = "out_of_stock"
	StockStatusDiscontinued = "discontinued"
)

// Product represents a product in the catalog.
// It includes a unique slug, price, optional discount price, and stock levels.
type Product struct {
	ID            uint             `gorm:"primaryKey"`
	Name          string           `gorm:"size:200;not null"`
	Slug          string           `gorm:"uniqueIndex;size:200;not null"`
	CategoryID    uint             `gorm:"index:idx_products_category_active;not null"`
	Category      Category         `gorm:"foreignKey:CategoryID"`
	Description   string
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	StockQuantity int              `gorm:"not null;default:0"`
	StockStatus   string           `gorm:"size:20;not null;default:in_stock"`
	Brand         string           `gorm:"size:100"`
	IsFeatured    bool             `gorm:"index:idx_products_featured_active;not null;default:false"`
	IsActive      bool             `gorm:"index:idx_products_category_active;index:idx_products_featured_active;not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) TableName() string {
	return "products"
}

// EffectivePrice returns the discount price when set, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// IsOnSale reports whether a discount price below the list price is set.
func (p *Product) IsOnSale() bool {
	return p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.Price)
}

// DiscountPercentage returns the sale discount as a whole percentage, 0 when not on sale.
func (p *Product) DiscountPercentage() int {
	if !p.IsOnSale() {
		return 0
	}
	pct := p.Price.Sub(*p.DiscountPrice).
		Div(p.Price).
		Mul(decimal.NewFromInt(100))
	return int(pct.IntPart())
}
