package handlers

import (
	"net/http"

	"fitbattle-service/internal/api/middleware"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Get the current user's profile information
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProfileResponse "User profile retrieved successfully"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Failure 404 {object} models.ErrorResponse "Profile not found"
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewProfileResponse(profile))
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Partially update the current user's profile. Empty strings clear optional fields.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.ProfileResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /profile [put]
// @Router /profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewProfileResponse(profile))
}

// UploadAvatar godoc
// @Summary Upload profile picture
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image, at most 5 MiB"
// @Success 200 {object} models.ProfileResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse "Avatar storage is not configured"
// @Router /profile/avatar [put]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.userService.UpdateAvatar(c.Request.Context(), middleware.UserID(c), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewProfileResponse(profile))
}

// SearchUsersByUsername godoc
// @Summary Search users
// @Description Case-insensitive username search, excluding the caller
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param query query string true "Part of a username"
// @Success 200 {array} models.UserSummary
// @Failure 401 {object} models.ErrorResponse
// @Router /users/search [get]
func (h *UserHandler) SearchUsersByUsername(c *gin.Context) {
	users, err := h.userService.Search(c.Request.Context(), middleware.UserID(c), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
