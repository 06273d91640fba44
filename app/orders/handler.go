// Package orders serves a user's order history. Orders are immutable; the
// only queries are a paginated listing and an ownership-scoped detail view.
package orders

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pawmart/storefront/app/auth"
	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

type OrderProvider interface {
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error)
	GetByNumberForUser(ctx context.Context, userID uint, orderNumber string) (*models.Order, error)
}

type Handler struct {
	repo OrderProvider
}

func NewHandler(repo OrderProvider) *Handler {
	return &Handler{repo: repo}
}

type itemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type orderResponse struct {
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []itemResponse  `json:"items"`
}

type listResponse struct {
	Total  int             `json:"total"`
	Orders []orderResponse `json:"orders"`
}

func toOrderResponse(o models.Order) orderResponse {
	items := make([]itemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = itemResponse{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal(),
		}
	}
	return orderResponse{
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Items:       items,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	offset := 0
	limit := 10
	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}
	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	orders, total, err := h.repo.ListByUser(r.Context(), userID, offset, limit)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	response := listResponse{
		Total:  int(total),
		Orders: make([]orderResponse, len(orders)),
	}
	for i, o := range orders {
		response.Orders[i] = toOrderResponse(o)
	}
	render.JSON(w, http.StatusOK, response)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	order, err := h.repo.GetByNumberForUser(r.Context(), userID, r.PathValue("number"))
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			render.Error(w, http.StatusNotFound, "Order not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}

	render.JSON(w, http.StatusOK, toOrderResponse(*order))
}
