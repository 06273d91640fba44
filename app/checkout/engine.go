// Package checkout converts a non-empty cart into an immutable order.
// The whole conversion runs in one transaction: stock is re-checked under
// row locks, line prices are snapshotted into the order and the cart is
// cleared. On any failure nothing happens at all.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pawmart/storefront/models"
)

// orderNumberAttempts bounds regeneration after a uniqueness violation.
const orderNumberAttempts = 3

// ShippingInfo is the contact and delivery data submitted at checkout.
// Every field except Notes is required.
type ShippingInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Notes      string `json:"notes"`
}

// Validate rejects missing required fields.
func (s *ShippingInfo) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"first_name", s.FirstName},
		{"last_name", s.LastName},
		{"address", s.Address},
		{"city", s.City},
		{"postal_code", s.PostalCode},
		{"country", s.Country},
		{"phone", s.Phone},
		{"email", s.Email},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &models.ValidationError{Field: r.field, Reason: "required"}
		}
	}
	return nil
}

// Line is one cart line as shown on the confirmation page.
type Line struct {
	ProductID uint            `json:"product_id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// View is the read-only summary returned by InitiateCheckout.
type View struct {
	Lines         []Line          `json:"lines"`
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type Engine struct {
	store models.CheckoutStore
	log   *zap.Logger
	now   func() time.Time
}

func NewEngine(store models.CheckoutStore, log *zap.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// InitiateCheckout returns the cart lines and totals for confirmation.
// It performs no mutation; totals are computed from current effective prices.
func (e *Engine) InitiateCheckout(ctx context.Context, userID uint) (*View, error) {
	_, items, err := e.store.CartItemsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	view := &View{TotalAmount: decimal.Zero}
	for _, item := range items {
		line := Line{
			ProductID: item.ProductID,
			Slug:      item.Product.Slug,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.EffectivePrice(),
			LineTotal: item.LineTotal(),
		}
		view.Lines = append(view.Lines, line)
		view.TotalQuantity += item.Quantity
		view.TotalAmount = view.TotalAmount.Add(line.LineTotal)
	}
	return view, nil
}

// PlaceOrder atomically creates an order from the user's cart, decrements
// stock and empties the cart. Any failure leaves cart and stock untouched.
// The total is always computed server-side from current line prices.
func (e *Engine) PlaceOrder(ctx context.Context, userID uint, info ShippingInfo) (*models.Order, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	var placed *models.Order
	err := e.store.Transaction(ctx, func(tx models.CheckoutStore) error {
		cart, items, err := tx.CartItemsForUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return models.ErrEmptyCart
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product, err := tx.ProductForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product.StockQuantity < item.Quantity {
				return &models.InsufficientStockError{
					ProductID: product.ID,
					Slug:      product.Slug,
					Available: product.StockQuantity,
					Requested: item.Quantity,
				}
			}

			price := product.EffectivePrice()
			productID := product.ID
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   &productID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				Price:       price,
			})
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))

			product.StockQuantity -= item.Quantity
			if product.StockQuantity == 0 && product.StockStatus == models.StockStatusInStock {
				product.StockStatus = models.StockStatusOutOfStock
			}
			if err := tx.SaveProduct(ctx, product); err != nil {
				return err
			}
		}

		order := &models.Order{
			UserID:          userID,
			Status:          models.OrderStatusProcessing,
			TotalAmount:     total,
			FirstName:       info.FirstName,
			LastName:        info.LastName,
			ShippingAddress: info.Address,
			City:            info.City,
			PostalCode:      info.PostalCode,
			Country:         info.Country,
			Phone:           info.Phone,
			Email:           info.Email,
			Notes:           info.Notes,
			Items:           orderItems,
		}

		for attempt := 1; ; attempt++ {
			order.OrderNumber = models.NewOrderNumber(e.now())
			err := tx.CreateOrder(ctx, order)
			if err == nil {
				break
			}
			if !errors.Is(err, models.ErrDuplicateOrderNumber) {
				return err
			}
			if attempt >= orderNumberAttempts {
				return models.ErrOrderNumberCollision
			}
			e.log.Warn("order number collision, regenerating",
				zap.String("order_number", order.OrderNumber),
				zap.Int("attempt", attempt))
		}

		if err := tx.ClearCart(ctx, cart.ID); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("order placed",
		zap.String("order_number", placed.OrderNumber),
		zap.Uint("user_id", userID),
		zap.Int("lines", len(placed.Items)),
		zap.String("total_amount", placed.TotalAmount.String()))
	return placed, nil
}
