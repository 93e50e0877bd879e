package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"fitbattle-service/internal/apperr"
	"fitbattle-service/internal/models"
	"fitbattle-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError writes err as an ErrorResponse with the status of its kind.
// Unclassified errors are logged and reported as 500 without details.
func respondError(c *gin.Context, err error) {
	status := response.StatusFor(apperr.KindOf(err))
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Code:    status,
		Message: apperr.MessageOf(err),
	})
}

func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: response.Message(http.StatusBadRequest),
		Details: err.Error(),
	})
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: response.Message(http.StatusBadRequest),
			Details: name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
