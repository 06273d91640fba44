package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Tests: GET /products/{slug} ---

func TestHandleGetProduct(t *testing.T) {
	newRequest := func(slug string) *http.Request {
		req := httptest.NewRequest("GET", "/products/"+slug, nil)
		req.SetPathValue("slug", slug)
		return req
	}

	t.Run("returns the product detail", func(t *testing.T) {
		repo := &MockProductRepo{SourceProducts: sampleProducts()}
		handler := NewCatalogHandler(repo, &MockCategoryRepo{})
		rec := httptest.NewRecorder()

		handler.HandleGetProduct(rec, newRequest("dog-bed"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "dog-bed", repo.lastCalledSlug)

		var resp struct {
			Slug               string `json:"slug"`
			Name               string `json:"name"`
			Price              string `json:"price"`
			DiscountPrice      string `json:"discount_price"`
			OnSale             bool   `json:"on_sale"`
			StockQuantity      int    `json:"stock_quantity"`
			DiscountPercentage int    `json:"discount_percentage"`
			Category           struct {
				Slug string `json:"slug"`
			} `json:"category"`
		}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "dog-bed", resp.Slug)
		assert.Equal(t, "Dog Bed", resp.Name)
		assert.Equal(t, "20", resp.Price)
		assert.Equal(t, "15", resp.DiscountPrice)
		assert.True(t, resp.OnSale)
		assert.Equal(t, 5, resp.StockQuantity)
		assert.Equal(t, 25, resp.DiscountPercentage)
		assert.Equal(t, "dogs", resp.Category.Slug)
	})

	t.Run("unknown slug is a 404", func(t *testing.T) {
		repo := &MockProductRepo{SourceProducts: sampleProducts()}
		handler := NewCatalogHandler(repo, &MockCategoryRepo{})
		rec := httptest.NewRecorder()

		handler.HandleGetProduct(rec, newRequest("hamster-wheel"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var errResp map[string]string
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
		assert.Equal(t, "Product not found", errResp["error"])
	})
}
