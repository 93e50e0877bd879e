package handlers

import (
	"net/http"

	"fitbattle-service/internal/api/middleware"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/service"
	"fitbattle-service/internal/units"

	"github.com/gin-gonic/gin"
)

// BattleHandler serves battles. Goal and progress values of weight battles
// travel in the caller's preferred unit.
type BattleHandler struct {
	userService   *service.UserService
	battleService *service.BattleService
}

func NewBattleHandler(userService *service.UserService, battleService *service.BattleService) *BattleHandler {
	return &BattleHandler{userService: userService, battleService: battleService}
}

// respondBattle writes b for the caller.
func (h *BattleHandler) respondBattle(c *gin.Context, status int, b *models.Battle) {
	pref, ok := preferenceOf(c, h.userService)
	if !ok {
		return
	}
	c.JSON(status, newBattleResponse(b, pref))
}

// ListBattles godoc
// @Summary List battles
// @Description Battles the caller created or takes part in, newest first
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BattleResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /battles [get]
func (h *BattleHandler) ListBattles(c *gin.Context) {
	pref, ok := preferenceOf(c, h.userService)
	if !ok {
		return
	}
	battles, err := h.battleService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]models.BattleResponse, 0, len(battles))
	for i := range battles {
		out = append(out, newBattleResponse(&battles[i], pref))
	}
	c.JSON(http.StatusOK, out)
}

// CreateBattle godoc
// @Summary Create a battle
// @Description The caller becomes the creator and first participant. Battles are private unless is_private is false.
// @Tags battles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateBattleRequest true "Battle definition"
// @Success 201 {object} models.BattleResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /battles [post]
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req models.CreateBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	pref, ok := preferenceOf(c, h.userService)
	if !ok {
		return
	}

	param := models.MetricParam(req.WeightParam)
	isPrivate := true
	if req.IsPrivate != nil {
		isPrivate = *req.IsPrivate
	}
	battle, err := h.battleService.Create(c.Request.Context(), middleware.UserID(c), service.BattleSpec{
		Name:        req.Name,
		Description: req.Description,
		Type:        models.BattleType(req.Type),
		WeightParam: param,
		GoalValue:   units.NormalizePtr(req.GoalValue, param, pref),
		Duration:    req.Duration,
		IsPrivate:   isPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newBattleResponse(battle, pref))
}

// GetBattle godoc
// @Summary Battle detail
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Success 200 {object} models.BattleResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /battles/{id} [get]
func (h *BattleHandler) GetBattle(c *gin.Context) {
	battleID, ok := idParam(c, "id")
	if !ok {
		return
	}
	battle, err := h.battleService.Get(c.Request.Context(), battleID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondBattle(c, http.StatusOK, battle)
}

// DeleteBattle godoc
// @Summary Delete a battle
// @Description Creator only. Participants, statistics and invitations go with it.
// @Tags battles
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /battles/{id} [delete]
func (h *BattleHandler) DeleteBattle(c *gin.Context) {
	battleID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.battleService.Delete(c.Request.Context(), middleware.UserID(c), battleID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartBattle godoc
// @Summary Start a battle
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Success 200 {object} models.BattleResponse
// @Failure 403 {object} models.ErrorResponse "Not the creator"
// @Failure 409 {object} models.ErrorResponse "Already started or finished"
// @Router /battles/{id}/start [post]
func (h *BattleHandler) StartBattle(c *gin.Context) {
	battleID, ok := idParam(c, "id")
	if !ok {
		return
	}
	battle, err := h.battleService.Start(c.Request.Context(), middleware.UserID(c), battleID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondBattle(c, http.StatusOK, battle)
}

// JoinBattle godoc
// @Summary Join a public battle
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Success 200 {object} models.BattleResponse
// @Failure 403 {object} models.ErrorResponse "Private battle"
// @Failure 409 {object} models.ErrorResponse "Finished or already joined"
// @Router /battles/{id}/join [post]
func (h *BattleHandler) JoinBattle(c *gin.Context) {
	battleID, ok := idParam(c, "id")
	if !ok {
		return
	}
	battle, err := h.battleService.Join(c.Request.Context(), middleware.UserID(c), battleID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondBattle(c, http.StatusOK, battle)
}

// LeaveBattle godoc
// @Summary Leave a battle
// @Tags battles
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse "Not a participant"
// @Router /battles/{id}/leave [delete]
func (h *BattleHandler) LeaveBattle(c *gin.Context) {
	battleID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.battleService.Leave(c.Request.Context(), middleware.UserID(c), battleID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leaderboard godoc
// @Summary Battle leaderboard
// @Description Statistics ranked by progress, highest first
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Success 200 {array} models.LeaderboardEntry
// @Failure 404 {object} models.ErrorResponse
// @Router /battles/{id}/leaderboard [get]
func (h *BattleHandler) Leaderboard(c *gin.Context) {
	battleID, ok := idParam(c, "id")
	if !ok {
		return
	}
	pref, ok := preferenceOf(c, h.userService)
	if !ok {
		return
	}
	stats, err := h.battleService.Leaderboard(c.Request.Context(), battleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLeaderboard(stats, pref))
}

// Invite godoc
// @Summary Invite a user to a battle
// @Tags battles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Battle ID"
// @Param request body models.InviteRequest true "Invitee"
// @Success 201 {object} models.BattleInvitationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse "Caller is not a participant"
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /battles/{id}/invite [post]
func (h *BattleHandler) Invite(c *gin.Context) {
	battleID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	inv, err := h.battleService.Invite(c.Request.Context(), middleware.UserID(c), battleID, req.InvitedUser)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newInvitationResponse(inv))
}

// PendingInvitations godoc
// @Summary Pending battle invitations of the caller
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BattleInvitationResponse
// @Router /battles/invitations/pending [get]
func (h *BattleHandler) PendingInvitations(c *gin.Context) {
	invs, err := h.battleService.PendingInvitations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]models.BattleInvitationResponse, 0, len(invs))
	for i := range invs {
		out = append(out, newInvitationResponse(&invs[i]))
	}
	c.JSON(http.StatusOK, out)
}

// AcceptInvitation godoc
// @Summary Accept a battle invitation
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} models.BattleResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /battles/invitations/{id}/accept [post]
func (h *BattleHandler) AcceptInvitation(c *gin.Context) {
	invitationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	battle, err := h.battleService.AcceptInvitation(c.Request.Context(), middleware.UserID(c), invitationID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondBattle(c, http.StatusOK, battle)
}

// RejectInvitation godoc
// @Summary Reject a battle invitation
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /battles/invitations/{id}/reject [post]
func (h *BattleHandler) RejectInvitation(c *gin.Context) {
	invitationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.battleService.RejectInvitation(c.Request.Context(), middleware.UserID(c), invitationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "invitation rejected"})
}
