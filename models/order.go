package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status values. Orders start in processing; later transitions are
// an admin concern and not part of this service.
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const orderNumberPrefix = "ORD"

// Order is an immutable record of a completed checkout.
type Order struct {
	ID              uint            `gorm:"primaryKey"`
	UserID          uint            `gorm:"index;not null"`
	OrderNumber     string          `gorm:"uniqueIndex;size:32;not null"`
	Status          string          `gorm:"size:20;not null;default:processing"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FirstName       string          `gorm:"size:100;not null"`
	LastName        string          `gorm:"size:100;not null"`
	ShippingAddress string          `gorm:"not null"`
	City            string          `gorm:"size:100;not null"`
	PostalCode      string          `gorm:"size:20;not null"`
	Country         string          `gorm:"size:100;not null"`
	Phone           string          `gorm:"size:30;not null"`
	Email           string          `gorm:"size:254;not null"`
	Notes           string
	Items           []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time
}

func (o *Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. Price and ProductName are snapshots
// taken at order time and are never recomputed from live catalog data.
// The product reference is nullable so history survives catalog deletion.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"index;not null"`
	ProductID   *uint           `gorm:"index"`
	Product     *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	ProductName string          `gorm:"size:200;not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (i *OrderItem) TableName() string {
	return "order_items"
}

// LineTotal is the snapshot price times quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrderNumber builds a human-readable order number: prefix, date and an
// 8-character random hex suffix. Collisions are improbable, not impossible;
// callers retry on a uniqueness violation.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, now.Format("20060102"), suffix)
}
