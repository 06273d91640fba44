// Package wishlist exposes the per-user saved-products set. Adding a product
// that is already saved removes it (toggle), matching the storefront UI.
package wishlist

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pawmart/storefront/app/auth"
	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

type WishlistProvider interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Wishlist, error)
	Products(ctx context.Context, wishlistID uint) ([]models.Product, error)
	Toggle(ctx context.Context, wishlist *models.Wishlist, product *models.Product) (bool, error)
}

type ProductProvider interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
}

type Handler struct {
	wishlists WishlistProvider
	products  ProductProvider
}

func NewHandler(wishlists WishlistProvider, products ProductProvider) *Handler {
	return &Handler{wishlists: wishlists, products: products}
}

type productResponse struct {
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	StockStatus   string           `json:"stock_status"`
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	wishlist, err := h.wishlists.GetOrCreate(r.Context(), userID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load wishlist")
		return
	}
	products, err := h.wishlists.Products(r.Context(), wishlist.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load wishlist")
		return
	}

	response := make([]productResponse, len(products))
	for i, p := range products {
		response[i] = productResponse{
			Slug:          p.Slug,
			Name:          p.Name,
			Price:         p.Price,
			DiscountPrice: p.DiscountPrice,
			StockStatus:   p.StockStatus,
		}
	}
	render.JSON(w, http.StatusOK, response)
}

// HandleToggle adds or removes a product and reports the resulting state.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	productID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.products.GetByID(r.Context(), uint(productID))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			render.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to update wishlist")
		return
	}

	wishlist, err := h.wishlists.GetOrCreate(r.Context(), userID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to update wishlist")
		return
	}
	inWishlist, err := h.wishlists.Toggle(r.Context(), wishlist, product)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to update wishlist")
		return
	}

	render.JSON(w, http.StatusOK, map[string]bool{"in_wishlist": inWishlist})
}
