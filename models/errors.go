package models

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

// ErrCartItemNotFound is returned when a cart line does not exist or is not
// owned by the requesting user.
var ErrCartItemNotFound = errors.New("cart item not found")

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrOrderNotFound is returned when an order does not exist or belongs to
// another user. The two cases are indistinguishable on purpose.
var ErrOrderNotFound = errors.New("order not found")

// ErrDuplicateOrderNumber signals a unique-constraint violation on the order
// number; the checkout engine regenerates and retries.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

// ErrOrderNumberCollision is returned after order-number regeneration retries
// are exhausted.
var ErrOrderNumberCollision = errors.New("could not generate a unique order number")

// ErrReviewExists is returned when a user reviews the same product twice.
var ErrReviewExists = errors.New("product already reviewed by this user")

// ErrReviewNotFound is returned when a review does not exist or is not owned
// by the requesting user.
var ErrReviewNotFound = errors.New("review not found")

// ErrUserExists is returned when the username or email is already registered.
var ErrUserExists = errors.New("username or email already taken")

// ErrInvalidCredentials is returned on a failed login.
var ErrInvalidCredentials = errors.New("invalid username or password")

// InsufficientStockError reports that a product cannot cover the requested
// quantity. It names the offending product.
type InsufficientStockError struct {
	ProductID uint
	Slug      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: %d available, %d requested", e.Slug, e.Available, e.Requested)
}

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
