package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawmart/storefront/models"
)

const testSecret = "test-secret"

// --- Mock Repository ---

type MockUserRepo struct {
	Users     map[string]*models.User
	CreateErr error
	LastSaved *models.User
}

func (m *MockUserRepo) Create(_ context.Context, user *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	user.ID = uint(len(m.Users) + 1)
	m.LastSaved = user
	if m.Users == nil {
		m.Users = map[string]*models.User{}
	}
	m.Users[user.Username] = user
	return nil
}

func (m *MockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if user, ok := m.Users[username]; ok {
		return user, nil
	}
	return nil, models.ErrInvalidCredentials
}

func (m *MockUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, models.ErrInvalidCredentials
}

func repoWithUser(t *testing.T) *MockUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	assert.NoError(t, err)
	return &MockUserRepo{Users: map[string]*models.User{
		"ada": {ID: 42, Username: "ada", Email: "ada@example.com", PasswordHash: string(hash)},
	}}
}

// --- Tests ---

func TestHandleRegister(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		repo               *MockUserRepo
		expectedStatusCode int
	}{
		{
			name:               "success",
			body:               `{"username":"grace","email":"grace@example.com","password":"hopper1234"}`,
			repo:               &MockUserRepo{},
			expectedStatusCode: http.StatusCreated,
		},
		{
			name:               "short password",
			body:               `{"username":"grace","email":"grace@example.com","password":"short"}`,
			repo:               &MockUserRepo{},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "missing username",
			body:               `{"email":"grace@example.com","password":"hopper1234"}`,
			repo:               &MockUserRepo{},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "duplicate account",
			body:               `{"username":"ada","email":"ada@example.com","password":"hopper1234"}`,
			repo:               &MockUserRepo{CreateErr: models.ErrUserExists},
			expectedStatusCode: http.StatusConflict,
		},
		{
			name:               "invalid JSON",
			body:               `{nope`,
			repo:               &MockUserRepo{},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHandler(tc.repo, testSecret)
			req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handler.HandleRegister(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
		})
	}

	t.Run("password is stored hashed", func(t *testing.T) {
		repo := &MockUserRepo{}
		handler := NewHandler(repo, testSecret)
		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"username":"grace","email":"g@example.com","password":"hopper1234"}`))
		rec := httptest.NewRecorder()

		handler.HandleRegister(rec, req)

		assert.NotNil(t, repo.LastSaved)
		assert.NotEqual(t, "hopper1234", repo.LastSaved.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.LastSaved.PasswordHash), []byte("hopper1234")))
	})
}

func TestHandleLogin(t *testing.T) {
	t.Run("issues a token accepted by the middleware", func(t *testing.T) {
		repo := repoWithUser(t)
		handler := NewHandler(repo, testSecret)
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"ada","password":"correct horse"}`))
		rec := httptest.NewRecorder()

		handler.HandleLogin(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp["token"])

		// Round-trip through RequireAuth.
		middleware := NewMiddleware(testSecret, repo)
		var gotUserID uint
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, _ = UserID(r.Context())
		})
		authedReq := httptest.NewRequest("GET", "/cart", nil)
		authedReq.Header.Set("Authorization", "Bearer "+resp["token"])
		authedRec := httptest.NewRecorder()

		middleware.RequireAuth(next).ServeHTTP(authedRec, authedReq)

		assert.Equal(t, http.StatusOK, authedRec.Code)
		assert.Equal(t, uint(42), gotUserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		handler := NewHandler(repoWithUser(t), testSecret)
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"ada","password":"wrong"}`))
		rec := httptest.NewRecorder()

		handler.HandleLogin(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		handler := NewHandler(repoWithUser(t), testSecret)
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"nobody","password":"whatever"}`))
		rec := httptest.NewRecorder()

		handler.HandleLogin(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	testCases := []struct {
		name               string
		header             string
		expectedStatusCode int
	}{
		{
			name:               "missing header",
			header:             "",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "not a bearer token",
			header:             "Basic abc123",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "garbage token",
			header:             "Bearer not.a.token",
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			middleware := NewMiddleware(testSecret, repoWithUser(t))
			req := httptest.NewRequest("GET", "/cart", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			middleware.RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
		})
	}
}
