package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"fitbattle-service/internal/auth"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextClaims   = "claims"
)

type AuthMiddleware struct {
	tokens    *auth.TokenManager
	blacklist repository.TokenBlacklist
}

func NewAuthMiddleware(tokens *auth.TokenManager, blacklist repository.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:    tokens,
		blacklist: blacklist,
	}
}

func unauthorized(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: "unauthorized",
		Details: details,
	})
}

// RequireAuth accepts "Authorization: Bearer <jwt>" with a valid, unrevoked token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "authorization header is required")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			unauthorized(c, "authorization header must be a bearer token")
			return
		}

		claims, err := am.tokens.Parse(tokenString)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		revoked, err := am.blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			slog.Error("Token revocation check failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Code:    http.StatusInternalServerError,
				Message: "internal server error",
			})
			return
		}
		if revoked {
			unauthorized(c, "token has been revoked")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// UserID returns the authenticated user id, 0 outside RequireAuth.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

// Claims returns the parsed token of the request, nil outside RequireAuth.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
