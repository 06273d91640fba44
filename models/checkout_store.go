package models

import "context"

// CheckoutStore is the persistence contract for the checkout engine. All
// mutating methods are called inside Transaction; the implementation must
// undo everything when the callback returns an error.
type CheckoutStore interface {
	// Transaction runs fn atomically; fn receives a store bound to the
	// transaction.
	Transaction(ctx context.Context, fn func(tx CheckoutStore) error) error

	// CartItemsForUser loads the user's cart and its lines. A missing cart
	// is reported as ErrEmptyCart.
	CartItemsForUser(ctx context.Context, userID uint) (*Cart, []CartItem, error)

	// ProductForUpdate loads a product with the row locked against
	// concurrent checkouts for the duration of the transaction.
	ProductForUpdate(ctx context.Context, id uint) (*Product, error)

	SaveProduct(ctx context.Context, p *Product) error

	// CreateOrder inserts the order with its items. A uniqueness violation
	// on the order number is reported as ErrDuplicateOrderNumber and must
	// not poison the enclosing transaction, so the engine can retry with a
	// regenerated number.
	CreateOrder(ctx context.Context, o *Order) error

	// ClearCart deletes all lines of the cart, keeping the cart row.
	ClearCart(ctx context.Context, cartID uint) error
}
