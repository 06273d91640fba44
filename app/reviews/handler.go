// Package reviews exposes product reviews: a public listing with the average
// rating, and authenticated create/update/delete limited to one review per
// user and product.
package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pawmart/storefront/app/auth"
	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

type ReviewProvider interface {
	ListByProduct(ctx context.Context, productID uint) ([]models.Review, error)
	AverageRating(ctx context.Context, productID uint) (float64, error)
	Create(ctx context.Context, review *models.Review) error
	GetForUser(ctx context.Context, reviewID, userID uint) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, reviewID uint) error
}

type ProductProvider interface {
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
}

type Handler struct {
	reviews  ReviewProvider
	products ProductProvider
}

func NewHandler(reviews ReviewProvider, products ProductProvider) *Handler {
	return &Handler{reviews: reviews, products: products}
}

type reviewResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type reviewInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (in *reviewInput) validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return &models.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	if in.Title == "" {
		return &models.ValidationError{Field: "title", Reason: "required"}
	}
	if in.Comment == "" {
		return &models.ValidationError{Field: "comment", Reason: "required"}
	}
	return nil
}

// HandleList returns a product's reviews with the average rating.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	reviews, err := h.reviews.ListByProduct(r.Context(), product.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch reviews")
		return
	}
	average, err := h.reviews.AverageRating(r.Context(), product.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch reviews")
		return
	}

	out := make([]reviewResponse, len(reviews))
	for i, review := range reviews {
		out[i] = reviewResponse{
			ID:        review.ID,
			Username:  review.User.Username,
			Rating:    review.Rating,
			Title:     review.Title,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		}
	}

	render.JSON(w, http.StatusOK, struct {
		AverageRating float64          `json:"average_rating"`
		Reviews       []reviewResponse `json:"reviews"`
	}{
		AverageRating: average,
		Reviews:       out,
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	product, err := h.products.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	var input reviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := input.validate(); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	review := &models.Review{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    input.Rating,
		Title:     input.Title,
		Comment:   input.Comment,
	}
	if err := h.reviews.Create(r.Context(), review); err != nil {
		if errors.Is(err, models.ErrReviewExists) {
			render.Error(w, http.StatusConflict, "You have already reviewed this product")
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to create review")
		return
	}

	render.JSON(w, http.StatusCreated, map[string]string{"message": "Your review has been added"})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	review, ok := h.ownedReview(w, r, userID)
	if !ok {
		return
	}

	var input reviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := input.validate(); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	review.Rating = input.Rating
	review.Title = input.Title
	review.Comment = input.Comment
	if err := h.reviews.Update(r.Context(), review); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to update review")
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"message": "Your review has been updated"})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	review, ok := h.ownedReview(w, r, userID)
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), review.ID); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to delete review")
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"message": "Your review has been deleted"})
}

func (h *Handler) ownedReview(w http.ResponseWriter, r *http.Request, userID uint) (*models.Review, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid review id")
		return nil, false
	}
	review, err := h.reviews.GetForUser(r.Context(), uint(id), userID)
	if err != nil {
		if errors.Is(err, models.ErrReviewNotFound) {
			render.Error(w, http.StatusNotFound, "Review not found")
			return nil, false
		}
		render.Error(w, http.StatusInternalServerError, "failed to load review")
		return nil, false
	}
	return review, true
}
