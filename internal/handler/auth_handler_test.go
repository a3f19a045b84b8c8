package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink/internal/handler"
	"shortlink/internal/service"
	"shortlink/internal/service/mocks"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	router    *gin.Engine
	userRepo  *mocks.MockUserRepository
	linkRepo  *mocks.MockLinkRepository
	clickRepo *mocks.MockClickRepository
	clicks    service.ClickProcessor
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := mocks.NewMockUserRepository()
	linkRepo := mocks.NewMockLinkRepository()
	clickRepo := mocks.NewMockClickRepository()

	logger, _ := zap.NewDevelopment()
	tokens := service.NewTokenService(testSecret, time.Hour)
	users := service.NewUserService(userRepo, tokens, logger)
	links := service.NewLinkService(linkRepo, clickRepo, logger)
	analytics := service.NewAnalyticsService(linkRepo, clickRepo)
	clicks := service.NewClickProcessor(links, logger)
	clicks.Start()
	t.Cleanup(clicks.Stop)

	return &testEnv{
		router:    handler.NewRouter(users, links, analytics, clicks, tokens, logger),
		userRepo:  userRepo,
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
		clicks:    clicks,
	}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) registerAndLogin(t *testing.T, username, email, password string) string {
	t.Helper()
	w := e.request(t, "POST", "/api/auth/public/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.request(t, "POST", "/api/auth/public/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegister(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, "POST", "/api/auth/public/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "ROLE_USER", resp.Role)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_Duplicate(t *testing.T) {
	env := setupEnv(t)

	payload := gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	}
	w := env.request(t, "POST", "/api/auth/public/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, "POST", "/api/auth/public/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "user_exists")
}

func TestRegister_InvalidPayload(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, "POST", "/api/auth/public/register", "", gin.H{
		"username": "alice",
		"email":    "not-an-email",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, "POST", "/api/auth/public/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	env := setupEnv(t)
	token := env.registerAndLogin(t, "alice", "alice@example.com", "secret123")
	assert.NotEmpty(t, token)
}

func TestLogin_BadCredentials(t *testing.T) {
	env := setupEnv(t)
	env.registerAndLogin(t, "alice", "alice@example.com", "secret123")

	// Wrong password and unknown username produce identical responses.
	w := env.request(t, "POST", "/api/auth/public/login", "", gin.H{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPassword := w.Body.String()

	w = env.request(t, "POST", "/api/auth/public/login", "", gin.H{
		"username": "nobody",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPassword, w.Body.String())
}
