package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"
	"fitbattle-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type RateLimitMiddleware struct {
	limiter repository.RateLimiter
}

func NewRateLimitMiddleware(limiter repository.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// RateLimit limits authenticated users per endpoint. It must run after RequireAuth.
func (rm *RateLimitMiddleware) RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == 0 {
			unauthorized(c, "authentication required")
			return
		}
		key := fmt.Sprintf("rate_limit:%d:%s", userID, c.FullPath())
		rm.check(c, key, requests, window)
	}
}

// RateLimitIP creates a rate limiting middleware for public routes based on IP address
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit_ip:%s:%s", c.ClientIP(), c.FullPath())
		rm.check(c, key, requests, window)
	}
}

func (rm *RateLimitMiddleware) check(c *gin.Context, key string, requests int, window time.Duration) {
	allowed, err := rm.limiter.CheckRateLimit(c.Request.Context(), key, requests, window)
	if err != nil {
		slog.Error("Rate limit check failed", "key", key, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "rate limit check failed",
		})
		return
	}

	if !allowed {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Code:    http.StatusTooManyRequests,
			Message: response.Message(http.StatusTooManyRequests),
			Details: fmt.Sprintf("too many requests, limit: %d per %v", requests, window),
		})
		return
	}

	c.Next()
}
