package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

const tokenLifetime = 24 * time.Hour

// AccountProvider persists accounts for registration and login.
type AccountProvider interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type Handler struct {
	users  AccountProvider
	secret []byte
}

func NewHandler(users AccountProvider, secret string) *Handler {
	return &Handler{users: users, secret: []byte(secret)}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" || len(input.Password) < 8 {
		render.Error(w, http.StatusBadRequest, "username, email and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to register")
		return
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, models.ErrUserExists) {
			render.Error(w, http.StatusConflict, err.Error())
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to register")
		return
	}

	render.JSON(w, http.StatusCreated, map[string]string{"message": "Account created successfully"})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			render.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		render.Error(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(tokenLifetime).Unix(),
	})
	signed, err := token.SignedString(h.secret)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"token": signed})
}
