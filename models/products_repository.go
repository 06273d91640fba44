package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pawmart/storefront/cache"
)

const (
	featuredCacheKey = "featured_products"
	featuredCacheTTL = 5 * time.Minute
)

// Sort orders accepted by GetFilteredProducts.
const (
	SortName      = "name"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortNewest    = "newest"
)

type ProductsRepository struct {
	db    *gorm.DB
	cache cache.Cache
}

type ProductFilters struct {
	CategorySlug string
	Search       string
	Sort         string
}

func NewProductsRepository(db *gorm.DB, c cache.Cache) *ProductsRepository {
	return &ProductsRepository{
		db:    db,
		cache: c,
	}
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{}).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("products.is_active = ?", true).
		Preload("Category")

	// Filter
	if filters.CategorySlug != "" {
		query = query.Where("categories.slug = ?", filters.CategorySlug)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where(
			"products.name ILIKE ? OR products.description ILIKE ? OR products.brand ILIKE ?",
			like, like, like,
		)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.Sort {
	case SortPriceLow:
		query = query.Order("products.price ASC")
	case SortPriceHigh:
		query = query.Order("products.price DESC")
	case SortNewest:
		query = query.Order("products.created_at DESC")
	default:
		query = query.Order("products.name ASC")
	}

	// Apply pagination
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductsRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetFeatured returns up to limit featured active products, served through the
// cache with a short TTL. A cache miss or decode failure falls back to the
// database.
func (r *ProductsRepository) GetFeatured(ctx context.Context, limit int) ([]Product, error) {
	if r.cache != nil {
		if raw, ok := r.cache.Get(ctx, featuredCacheKey); ok {
			var cached []Product
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var products []Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_featured = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}

	if r.cache != nil {
		if raw, err := json.Marshal(products); err == nil {
			r.cache.Set(ctx, featuredCacheKey, raw, featuredCacheTTL)
		}
	}
	return products, nil
}

// Update saves catalog changes and invalidates the featured cache, since
// featured or active flags may have changed.
func (r *ProductsRepository) Update(ctx context.Context, p *Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return err
	}
	r.invalidateFeatured(ctx)
	return nil
}

// Deactivate soft-deletes a product. Products are never hard-deleted so
// historical order items stay resolvable.
func (r *ProductsRepository) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	r.invalidateFeatured(ctx)
	return nil
}

func (r *ProductsRepository) invalidateFeatured(ctx context.Context) {
	if r.cache != nil {
		r.cache.Delete(ctx, featuredCacheKey)
	}
}
