package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fitbattle-service/internal/database"
	"fitbattle-service/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary Liveness and database check
// @Tags ops
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		slog.Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "degraded", Database: "down"})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Database: "up"})
}
