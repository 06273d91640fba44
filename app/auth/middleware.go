package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pawmart/storefront/app/render"
	"github.com/pawmart/storefront/models"
)

type contextKey struct{}

var userIDKey contextKey

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok
}

// WithUserID is used by tests to simulate an authenticated request.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserProvider resolves a token subject to a live account.
type UserProvider interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type Middleware struct {
	secret []byte
	users  UserProvider
}

func NewMiddleware(secret string, users UserProvider) *Middleware {
	return &Middleware{secret: []byte(secret), users: users}
}

// RequireAuth verifies the bearer token, checks the account still exists and
// stores the user id in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			render.Error(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			render.Error(w, http.StatusUnauthorized, "Invalid token format, must be 'Bearer <token>'")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			render.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			render.Error(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			render.Error(w, http.StatusUnauthorized, "Invalid user ID in token")
			return
		}

		user, err := m.users.GetByID(r.Context(), uint(sub))
		if err != nil {
			render.Error(w, http.StatusUnauthorized, "User associated with token not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), user.ID)))
	})
}
