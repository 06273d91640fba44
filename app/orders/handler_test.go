package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pawmart/storefront/app/auth"
	"github.com/pawmart/storefront/models"
)

// --- Mock Repository ---

type MockOrderRepo struct {
	// Orders indexed by owning user.
	Orders map[uint][]models.Order

	lastOffset int
	lastLimit  int
}

func (m *MockOrderRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]models.Order, int64, error) {
	m.lastOffset = offset
	m.lastLimit = limit
	orders := m.Orders[userID]
	total := int64(len(orders))
	if offset > len(orders) {
		offset = len(orders)
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end], total, nil
}

func (m *MockOrderRepo) GetByNumberForUser(_ context.Context, userID uint, orderNumber string) (*models.Order, error) {
	for i := range m.Orders[userID] {
		if m.Orders[userID][i].OrderNumber == orderNumber {
			return &m.Orders[userID][i], nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func mustPrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func repoWithOrders() *MockOrderRepo {
	return &MockOrderRepo{Orders: map[uint][]models.Order{
		42: {
			{
				UserID:      42,
				OrderNumber: "ORD-20260829-AAAA1111",
				Status:      models.OrderStatusProcessing,
				TotalAmount: mustPrice("25.00"),
				Items: []models.OrderItem{
					{ProductName: "Dog Bed", Quantity: 2, Price: mustPrice("10.00")},
					{ProductName: "Cat Treats", Quantity: 1, Price: mustPrice("5.00")},
				},
			},
		},
		99: {
			{UserID: 99, OrderNumber: "ORD-20260829-BBBB2222", Status: models.OrderStatusProcessing},
		},
	}}
}

func authedRequest(userID uint, target string) *http.Request {
	req := httptest.NewRequest("GET", target, nil)
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

// --- Tests ---

func TestHandleList(t *testing.T) {
	t.Run("lists the user's orders", func(t *testing.T) {
		repo := repoWithOrders()
		handler := NewHandler(repo)
		rec := httptest.NewRecorder()

		handler.HandleList(rec, authedRequest(42, "/orders"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp listResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Total)
		assert.Len(t, resp.Orders, 1)
		assert.Equal(t, "ORD-20260829-AAAA1111", resp.Orders[0].OrderNumber)
		assert.Len(t, resp.Orders[0].Items, 2)
		assert.Equal(t, "20", resp.Orders[0].Items[0].LineTotal.String())
	})

	t.Run("pagination params are passed through", func(t *testing.T) {
		repo := repoWithOrders()
		handler := NewHandler(repo)
		rec := httptest.NewRecorder()

		handler.HandleList(rec, authedRequest(42, "/orders?offset=5&limit=20"))

		assert.Equal(t, 5, repo.lastOffset)
		assert.Equal(t, 20, repo.lastLimit)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		handler := NewHandler(repoWithOrders())
		rec := httptest.NewRecorder()

		handler.HandleList(rec, httptest.NewRequest("GET", "/orders", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleGetOrder(t *testing.T) {
	newRequest := func(userID uint, number string) *http.Request {
		req := authedRequest(userID, "/orders/"+number)
		req.SetPathValue("number", number)
		return req
	}

	t.Run("returns the user's own order", func(t *testing.T) {
		handler := NewHandler(repoWithOrders())
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, newRequest(42, "ORD-20260829-AAAA1111"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp orderResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "ORD-20260829-AAAA1111", resp.OrderNumber)
		assert.Equal(t, "25", resp.TotalAmount.String())
	})

	t.Run("another user's order number is not found", func(t *testing.T) {
		handler := NewHandler(repoWithOrders())
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, newRequest(42, "ORD-20260829-BBBB2222"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var errResp map[string]string
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
		assert.Equal(t, "Order not found", errResp["error"])
	})

	t.Run("unknown order number", func(t *testing.T) {
		handler := NewHandler(repoWithOrders())
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, newRequest(42, "ORD-20260829-ZZZZ9999"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
