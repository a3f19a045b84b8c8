package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink/internal/middleware"
	"shortlink/internal/models"
	"shortlink/internal/service"
	"shortlink/internal/service/mocks"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setupAuthRouter(t *testing.T) (*gin.Engine, service.TokenService, service.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := mocks.NewMockUserRepository()
	tokens := service.NewTokenService(testSecret, time.Hour)
	logger, _ := zap.NewDevelopment()
	users := service.NewUserService(userRepo, tokens, logger)

	router := gin.New()
	router.Use(middleware.Authenticate(tokens, users, logger))

	router.GET("/public", func(c *gin.Context) {
		_, authenticated := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})

	protected := router.Group("/protected")
	protected.Use(middleware.RequireUser())
	protected.GET("", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})

	return router, tokens, users
}

func registerTestUser(t *testing.T, users service.UserService) {
	t.Helper()
	_, err := users.Register(context.Background(), &models.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
}

func TestAuthenticate_AnonymousPassesPublic(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/public", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestRequireUser_RejectsAnonymous(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_RejectsInvalidToken(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_RejectsExpiredToken(t *testing.T) {
	router, _, users := setupAuthRouter(t)
	registerTestUser(t, users)

	expired := service.NewTokenService(testSecret, -time.Minute)
	token, err := expired.Issue("alice", models.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_AcceptsValidToken(t *testing.T) {
	router, tokens, users := setupAuthRouter(t)
	registerTestUser(t, users)

	token, err := tokens.Issue("alice", models.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestRequireUser_RejectsUnknownSubject(t *testing.T) {
	router, tokens, _ := setupAuthRouter(t)

	// Valid signature, but the subject was never registered.
	token, err := tokens.Issue("ghost", models.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
