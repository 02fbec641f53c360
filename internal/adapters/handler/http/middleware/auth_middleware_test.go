package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/services"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const (
		secret = "test-secret-middleware"
		issuer = "test-issuer"
	)

	setupRouter := func(tokenService *services.TokenService) *gin.Engine {
		router := gin.New()
		router.Use(AuthMiddleware(tokenService))
		router.GET("/protected", func(c *gin.Context) {
			userID, ok := GetUserID(c)
			if !ok {
				c.String(http.StatusInternalServerError, "user id missing from context")
				return
			}
			c.String(http.StatusOK, "Hello "+userID)
		})
		return router
	}

	serve := func(router *gin.Engine, url, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Success: bearer header", func(t *testing.T) {
		repo := new(MockUserRepo)
		tokens := services.NewTokenService(secret, issuer, time.Hour, repo)
		repo.On("GetByID", mock.Anything, "user-123").Return(&domain.User{ID: "user-123"}, nil)
		token, _ := tokens.GenerateToken("user-123")

		w := serve(setupRouter(tokens), "/protected", "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Hello user-123", w.Body.String())
	})

	t.Run("Success: query token for websocket upgrades", func(t *testing.T) {
		repo := new(MockUserRepo)
		tokens := services.NewTokenService(secret, issuer, time.Hour, repo)
		repo.On("GetByID", mock.Anything, "user-ws").Return(&domain.User{ID: "user-ws"}, nil)
		token, _ := tokens.GenerateToken("user-ws")

		w := serve(setupRouter(tokens), "/protected?access_token="+token, "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Fail: missing header", func(t *testing.T) {
		tokens := services.NewTokenService(secret, issuer, time.Hour, new(MockUserRepo))

		w := serve(setupRouter(tokens), "/protected", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authorization header required")
	})

	t.Run("Fail: malformed header", func(t *testing.T) {
		tokens := services.NewTokenService(secret, issuer, time.Hour, new(MockUserRepo))
		router := setupRouter(tokens)

		for _, h := range []string{"Bearer", "Token 12345", "Bearer12345", "Bearer a b"} {
			w := serve(router, "/protected", h)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "should fail for header: "+h)
		}
	})

	t.Run("Fail: tampered signature", func(t *testing.T) {
		repo := new(MockUserRepo)
		tokens := services.NewTokenService(secret, issuer, time.Hour, repo)
		attacker := services.NewTokenService("wrong-secret", issuer, time.Hour, repo)
		bad, _ := attacker.GenerateToken("attacker")

		w := serve(setupRouter(tokens), "/protected", "Bearer "+bad)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})

	t.Run("Fail: expired token", func(t *testing.T) {
		expired := services.NewTokenService(secret, issuer, -time.Second, new(MockUserRepo))
		token, _ := expired.GenerateToken("user-expired")

		w := serve(setupRouter(expired), "/protected", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Fail: deleted user", func(t *testing.T) {
		repo := new(MockUserRepo)
		tokens := services.NewTokenService(secret, issuer, time.Hour, repo)
		repo.On("GetByID", mock.Anything, "gone").Return(nil, domain.ErrUserNotFound)
		token, _ := tokens.GenerateToken("gone")

		w := serve(setupRouter(tokens), "/protected", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
