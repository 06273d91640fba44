package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

type CategoryResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ProductResponse struct {
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	OnSale        bool             `json:"on_sale"`
	StockStatus   string           `json:"stock_status"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
}

type CategoryHandler struct {
	repo     CategoryProvider
	products ProductProvider
}

func NewCategoryHandler(r CategoryProvider, products ProductProvider) *CategoryHandler {
	return &CategoryHandler{repo: r, products: products}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			Slug:        c.Slug,
			Name:        c.Name,
			Description: c.Description,
		}
	}

	render.JSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	category, err := h.repo.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			render.Error(w, http.StatusNotFound, "Category not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to fetch category")
		return
	}

	res, total, err := h.products.GetFilteredProducts(r.Context(), 0, 100, models.ProductFilters{
		CategorySlug: category.Slug,
	})
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch category products")
		return
	}

	products := make([]ProductResponse, len(res))
	for i, p := range res {
		products[i] = ProductResponse{
			Slug:          p.Slug,
			Name:          p.Name,
			Price:         p.Price,
			DiscountPrice: p.DiscountPrice,
			OnSale:        p.IsOnSale(),
			StockStatus:   p.StockStatus,
		}
	}

	render.JSON(w, http.StatusOK, struct {
		CategoryResponse
		Total    int               `json:"total"`
		Products []ProductResponse `json:"products"`
	}{
		CategoryResponse: CategoryResponse{
			Slug:        category.Slug,
			Name:        category.Name,
			Description: category.Description,
		},
		Total:    int(total),
		Products: products,
	})
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Slug        string `json:"slug"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if input.Slug == "" || input.Name == "" {
		render.Error(w, http.StatusBadRequest, "Missing slug or name")
		return
	}

	category := &models.Category{
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		render.Error(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	render.JSON(w, http.StatusCreated, map[string]string{
		"message": "Category created successfully",
	})
}
