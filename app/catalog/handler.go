package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Product struct {
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Brand         string           `json:"brand,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	OnSale        bool             `json:"on_sale"`
	StockStatus   string           `json:"stock_status"`
	Category      Category         `json:"category"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetFeatured(ctx context.Context, limit int) ([]models.Product, error)
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
}

type CatalogHandler struct {
	repo       ProductProvider
	categories CategoryProvider
}

func NewCatalogHandler(r ProductProvider, c CategoryProvider) *CatalogHandler {
	return &CatalogHandler{
		repo:       r,
		categories: c,
	}
}

func toProduct(p models.Product) Product {
	return Product{
		Slug:          p.Slug,
		Name:          p.Name,
		Brand:         p.Brand,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		OnSale:        p.IsOnSale(),
		StockStatus:   p.StockStatus,
		Category: Category{
			Slug: p.Category.Slug,
			Name: p.Category.Name,
		},
	}
}

// HandleHome serves the storefront landing data: featured products (through
// the cache) and the category list.
func (h *CatalogHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	featured, err := h.repo.GetFeatured(r.Context(), 8)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load featured products")
		return
	}
	categories, err := h.categories.GetAllCategories(r.Context())
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	featuredOut := make([]Product, len(featured))
	for i, p := range featured {
		featuredOut[i] = toProduct(p)
	}
	categoriesOut := make([]Category, len(categories))
	for i, c := range categories {
		categoriesOut[i] = Category{Slug: c.Slug, Name: c.Name}
	}

	render.JSON(w, http.StatusOK, struct {
		Featured   []Product  `json:"featured"`
		Categories []Category `json:"categories"`
	}{
		Featured:   featuredOut,
		Categories: categoriesOut,
	})
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 12

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	filters := models.ProductFilters{
		CategorySlug: r.URL.Query().Get("category"),
		Search:       r.URL.Query().Get("search"),
		Sort:         r.URL.Query().Get("sort"),
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), offset, limit, filters)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	render.JSON(w, http.StatusOK, Response{
		Total:    int(total),
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	product, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		render.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	response := struct {
		Product
		Description        string `json:"description"`
		StockQuantity      int    `json:"stock_quantity"`
		DiscountPercentage int    `json:"discount_percentage"`
	}{
		Product:            toProduct(*product),
		Description:        product.Description,
		StockQuantity:      product.StockQuantity,
		DiscountPercentage: product.DiscountPercentage(),
	}

	render.JSON(w, http.StatusOK, response)
}
