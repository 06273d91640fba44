package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type ReviewsRepository struct {
	db *gorm.DB
}

func NewReviewsRepository(db *gorm.DB) *ReviewsRepository {
	return &ReviewsRepository{db: db}
}

// ListByProduct returns a product's reviews, newest first.
func (r *ReviewsRepository) ListByProduct(ctx context.Context, productID uint) ([]Review, error) {
	var reviews []Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// AverageRating returns the mean rating for a product, 0 with no reviews.
func (r *ReviewsRepository) AverageRating(ctx context.Context, productID uint) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&Review{}).
		Where("product_id = ?", productID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *ReviewsRepository) Create(ctx context.Context, review *Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReviewExists
		}
		return err
	}
	return nil
}

// GetForUser fetches a review only if the user wrote it.
func (r *ReviewsRepository) GetForUser(ctx context.Context, reviewID, userID uint) (*Review, error) {
	var review Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewsRepository) Update(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *ReviewsRepository) Delete(ctx context.Context, reviewID uint) error {
	return r.db.WithContext(ctx).Delete(&Review{}, reviewID).Error
}
