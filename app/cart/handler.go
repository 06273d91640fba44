// Package cart exposes the shopping cart: viewing lines with fresh totals,
// adding products, changing quantities and removing lines. Stock is validated
// at every mutation; the checkout engine re-validates under row locks.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pawmart/storefront/app/auth"
	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

type CartProvider interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Cart, error)
	ItemsWithProducts(ctx context.Context, cartID uint) ([]models.CartItem, error)
	ItemQuantity(ctx context.Context, cartID, productID uint) (int, error)
	AddItem(ctx context.Context, cartID, productID uint, quantity int) error
	GetItemForUser(ctx context.Context, itemID, userID uint) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	RemoveItem(ctx context.Context, itemID uint) error
}

type ProductProvider interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
}

type Handler struct {
	carts    CartProvider
	products ProductProvider
}

func NewHandler(carts CartProvider, products ProductProvider) *Handler {
	return &Handler{carts: carts, products: products}
}

type lineResponse struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	Items         []lineResponse  `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// HandleGet returns the cart with totals recomputed from current prices.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	cart, err := h.carts.GetOrCreate(r.Context(), userID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	items, err := h.carts.ItemsWithProducts(r.Context(), cart.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	totals := models.TotalsOf(items)
	response := cartResponse{
		Items:         make([]lineResponse, len(items)),
		TotalQuantity: totals.TotalQuantity,
		TotalPrice:    totals.TotalPrice,
	}
	for i, item := range items {
		response.Items[i] = lineResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Slug:      item.Product.Slug,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.EffectivePrice(),
			LineTotal: item.LineTotal(),
		}
	}
	render.JSON(w, http.StatusOK, response)
}

// HandleAdd adds a product to the cart. The cumulative quantity (existing
// line plus the new amount) must be covered by stock.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.Quantity <= 0 {
		render.Error(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	product, err := h.products.GetByID(r.Context(), input.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			render.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	cart, err := h.carts.GetOrCreate(r.Context(), userID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}
	existing, err := h.carts.ItemQuantity(r.Context(), cart.ID, product.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}
	if product.StockQuantity < existing+input.Quantity {
		stockErr := &models.InsufficientStockError{
			ProductID: product.ID,
			Slug:      product.Slug,
			Available: product.StockQuantity,
			Requested: existing + input.Quantity,
		}
		render.Error(w, http.StatusConflict, stockErr.Error())
		return
	}

	if err := h.carts.AddItem(r.Context(), cart.ID, product.ID, input.Quantity); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}
	render.JSON(w, http.StatusCreated, map[string]string{"message": product.Name + " added to cart"})
}

// HandleUpdate changes a line's quantity. A quantity of zero or less removes
// the line; a quantity above stock is rejected and the line is unchanged.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	item, ok := h.ownedItem(w, r, userID)
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if input.Quantity <= 0 {
		if err := h.carts.RemoveItem(r.Context(), item.ID); err != nil {
			render.Error(w, http.StatusInternalServerError, "failed to update cart")
			return
		}
		render.JSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
		return
	}

	if item.Product.StockQuantity < input.Quantity {
		stockErr := &models.InsufficientStockError{
			ProductID: item.ProductID,
			Slug:      item.Product.Slug,
			Available: item.Product.StockQuantity,
			Requested: input.Quantity,
		}
		render.Error(w, http.StatusConflict, stockErr.Error())
		return
	}

	if err := h.carts.UpdateItemQuantity(r.Context(), item.ID, input.Quantity); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to update cart")
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"message": "Cart updated successfully"})
}

// HandleRemove deletes a line unconditionally.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	item, ok := h.ownedItem(w, r, userID)
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(r.Context(), item.ID); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to update cart")
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"message": item.Product.Name + " removed from cart"})
}

func (h *Handler) ownedItem(w http.ResponseWriter, r *http.Request, userID uint) (*models.CartItem, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid cart item id")
		return nil, false
	}
	item, err := h.carts.GetItemForUser(r.Context(), uint(id), userID)
	if err != nil {
		if errors.Is(err, models.ErrCartItemNotFound) {
			render.Error(w, http.StatusNotFound, "Cart item not found")
			return nil, false
		}
		render.Error(w, http.StatusInternalServerError, "failed to load cart item")
		return nil, false
	}
	return item, true
}
