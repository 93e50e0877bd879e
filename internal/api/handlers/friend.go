package handlers

import (
	"net/http"

	"fitbattle-service/internal/api/middleware"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/service"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	friendService *service.FriendService
}

func NewFriendHandler(friendService *service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// ListFriends godoc
// @Summary List friends
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FriendResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	friends, err := h.friendService.ListFriends(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// RemoveFriend godoc
// @Summary Remove a friend
// @Description Deletes the friendship in both directions
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Friend user ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "Not friends"
// @Router /friends/{id} [delete]
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	friendID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.friendService.RemoveFriend(c.Request.Context(), middleware.UserID(c), friendID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "friend removed"})
}

// ListRequests godoc
// @Summary List friend requests
// @Description Requests the caller sent and received, every status
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.FriendRequestsResponse
// @Router /friends/requests [get]
func (h *FriendHandler) ListRequests(c *gin.Context) {
	requests, err := h.friendService.ListRequests(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// SendRequest godoc
// @Summary Send a friend request
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendFriendRequest true "Recipient"
// @Success 201 {object} models.FriendRequestResponse
// @Failure 400 {object} models.ErrorResponse "Request to yourself"
// @Failure 404 {object} models.ErrorResponse "Unknown user"
// @Failure 409 {object} models.ErrorResponse "Already requested or already friends"
// @Router /friends/requests [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req models.SendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fr, err := h.friendService.SendRequest(c.Request.Context(), middleware.UserID(c), req.ToUser)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewFriendRequestResponse(fr))
}

// RespondToRequest godoc
// @Summary Accept or reject a friend request
// @Description Only the recipient of a pending request may answer it
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Friend request ID"
// @Param action path string true "accept or reject"
// @Success 200 {object} models.FriendRequestResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/requests/{id}/{action} [put]
func (h *FriendHandler) RespondToRequest(c *gin.Context) {
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	fr, err := h.friendService.RespondToRequest(c.Request.Context(), middleware.UserID(c), requestID, service.FriendAction(c.Param("action")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewFriendRequestResponse(fr))
}
