package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pawmart/storefront/app/auth"
	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

// OrderPlacer is the engine surface the handler depends on.
type OrderPlacer interface {
	InitiateCheckout(ctx context.Context, userID uint) (*View, error)
	PlaceOrder(ctx context.Context, userID uint, info ShippingInfo) (*models.Order, error)
}

type Handler struct {
	engine OrderPlacer
}

func NewHandler(engine OrderPlacer) *Handler {
	return &Handler{engine: engine}
}

type orderItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type orderResponse struct {
	OrderNumber string              `json:"order_number"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []orderItemResponse `json:"items"`
}

// HandleInitiate returns the cart summary for confirmation. No mutation.
func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	view, err := h.engine.InitiateCheckout(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrEmptyCart) {
			render.Error(w, http.StatusConflict, "Your cart is empty.")
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to load checkout")
		return
	}

	render.JSON(w, http.StatusOK, view)
}

// HandlePlaceOrder creates the order from the submitted shipping info.
func (h *Handler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var info ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, err := h.engine.PlaceOrder(r.Context(), userID, info)
	if err != nil {
		var validationErr *models.ValidationError
		var stockErr *models.InsufficientStockError
		switch {
		case errors.As(err, &validationErr):
			render.Error(w, http.StatusBadRequest, validationErr.Error())
		case errors.Is(err, models.ErrEmptyCart):
			render.Error(w, http.StatusConflict, "Your cart is empty.")
		case errors.As(err, &stockErr):
			render.Error(w, http.StatusConflict, stockErr.Error())
		default:
			render.Error(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	items := make([]orderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = orderItemResponse{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}
	render.JSON(w, http.StatusCreated, orderResponse{
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       items,
	})
}
