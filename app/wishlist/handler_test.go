package wishlist

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

// --- Mocks ---

type MockWishlistRepo struct {
	Wishlist *models.Wishlist
	Saved    []models.Product
}

func (m *MockWishlistRepo) GetOrCreate(context.Context, uint) (*models.Wishlist, error) {
	if m.Wishlist == nil {
		m.Wishlist = &models.Wishlist{ID: 3, UserID: 42}
	}
	return m.Wishlist, nil
}

func (m *MockWishlistRepo) Products(context.Context, uint) ([]models.Product, error) {
	return m.Saved, nil
}

func (m *MockWishlistRepo) Toggle(_ context.Context, _ *models.Wishlist, product *models.Product) (bool, error) {
	for i, p := range m.Saved {
		if p.ID == product.ID {
			m.Saved = append(m.Saved[:i], m.Saved[i+1:]...)
			return false, nil
		}
	}
	m.Saved = append(m.Saved, *product)
	return true, nil
}

type MockProductRepo struct {
	Products map[uint]*models.Product
}

func (m *MockProductRepo) GetByID(_ context.Context, id uint) (*models.Product, error) {
	if p, ok := m.Products[id]; ok {
		return p, nil
	}
	return nil, models.ErrProductNotFound
}

func mustPrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixtures() (*MockWishlistRepo, *MockProductRepo) {
	bed := &models.Product{ID: 1, Slug: "dog-bed", Name: "Dog Bed", Price: mustPrice("20.00"), StockStatus: models.StockStatusInStock}
	wishlists := &MockWishlistRepo{
		Wishlist: &models.Wishlist{ID: 3, UserID: 42},
		Saved:    []models.Product{*bed},
	}
	products := &MockProductRepo{Products: map[uint]*models.Product{1: bed}}
	return wishlists, products
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(auth.WithUserID(req.Context(), 42))
}

// --- Tests ---

func TestHandleGetWishlist(t *testing.T) {
	t.Run("lists saved products", func(t *testing.T) {
		wishlists, products := fixtures()
		handler := NewHandler(wishlists, products)
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, authedRequest("GET", "/wishlist"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []productResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp, 1)
		assert.Equal(t, "dog-bed", resp[0].Slug)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		wishlists, products := fixtures()
		handler := NewHandler(wishlists, products)
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, httptest.NewRequest("GET", "/wishlist", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleToggle(t *testing.T) {
	newRequest := func(id string) *http.Request {
		req := authedRequest("POST", "/wishlist/"+id)
		req.SetPathValue("id", id)
		return req
	}

	t.Run("removes a saved product", func(t *testing.T) {
		wishlists, products := fixtures()
		handler := NewHandler(wishlists, products)
		rec := httptest.NewRecorder()

		handler.HandleToggle(rec, newRequest("1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]bool
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp["in_wishlist"])
		assert.Empty(t, wishlists.Saved)
	})

	t.Run("adds an unsaved product back", func(t *testing.T) {
		wishlists, products := fixtures()
		wishlists.Saved = nil
		handler := NewHandler(wishlists, products)
		rec := httptest.NewRecorder()

		handler.HandleToggle(rec, newRequest("1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]bool
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp["in_wishlist"])
		assert.Len(t, wishlists.Saved, 1)
	})

	t.Run("unknown product", func(t *testing.T) {
		wishlists, products := fixtures()
		handler := NewHandler(wishlists, products)
		rec := httptest.NewRecorder()

		handler.HandleToggle(rec, newRequest("99"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
