package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitbattle-service/internal/auth"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(tokens *auth.TokenManager, blacklist repository.TokenBlacklist) *gin.Engine {
	r := gin.New()
	r.GET("/me", NewAuthMiddleware(tokens, blacklist).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "jti": Claims(c).ID})
	})
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "fitbattle", time.Hour)
	blacklist := repository.NewMemoryBlacklist()
	r := newAuthRouter(tokens, blacklist)

	token, claims, err := tokens.Issue(&models.User{Model: gorm.Model{ID: 7}, Username: "alice"})
	require.NoError(t, err)

	w := doGet(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization header is required")

	w = doGet(r, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"jti":"`+claims.ID+`"}`, w.Body.String())

	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))
	w = doGet(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

type stubLimiter struct {
	budget int
	keys   []string
	err    error
}

func (s *stubLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.keys = append(s.keys, key)
	s.budget++
	return s.budget <= limit, nil
}

func TestRateLimitIP(t *testing.T) {
	limiter := &stubLimiter{}
	r := gin.New()
	r.POST("/auth/login", NewRateLimitMiddleware(limiter).RateLimitIP(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "rate_limit_ip:10.0.0.1:/auth/login", limiter.keys[0])

	limiter.err = errors.New("redis down")
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateLimit_RequiresUser(t *testing.T) {
	r := gin.New()
	r.GET("/x", NewRateLimitMiddleware(&stubLimiter{}).RateLimit(5, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := doGet(r, "/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://fitbattle.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://fitbattle.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://fitbattle.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
