package handlers

import (
	"fitbattle-service/internal/api/middleware"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/service"
	"fitbattle-service/internal/units"

	"github.com/gin-gonic/gin"
)

// preferenceOf loads the caller's unit preference; on failure the response
// is already written.
func preferenceOf(c *gin.Context, users *service.UserService) (models.UnitPreference, bool) {
	pref, err := users.UnitPreference(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return pref, true
}

func newWeightStatResponse(s *models.WeightStat, pref models.UnitPreference) models.WeightStatResponse {
	return models.WeightStatResponse{
		ID:         s.ID,
		Date:       s.Date,
		Weight:     units.PresentPtr(s.Weight, models.MetricWeight, pref),
		BMI:        s.BMI,
		BodyFat:    s.BodyFat,
		MuscleMass: s.MuscleMass,
		BodyWater:  s.BodyWater,
		BoneMass:   s.BoneMass,
	}
}

func newBattleResponse(b *models.Battle, pref models.UnitPreference) models.BattleResponse {
	resp := models.BattleResponse{
		ID:           b.ID,
		Name:         b.Name,
		Description:  b.Description,
		CreatorID:    b.CreatorID,
		Creator:      b.Creator.Username,
		Type:         b.Type,
		WeightParam:  b.WeightParam,
		GoalValue:    units.PresentPtr(b.GoalValue, b.WeightParam, pref),
		Duration:     b.Duration,
		IsPrivate:    b.IsPrivate,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		StartedAt:    b.StartedAt,
		FinishedAt:   b.FinishedAt,
		Participants: make([]models.UserSummary, 0, len(b.Participants)),
		WinnerID:     b.WinnerID,
	}
	for _, p := range b.Participants {
		resp.Participants = append(resp.Participants, models.UserSummary{ID: p.UserID, Username: p.User.Username})
	}
	if b.Winner != nil {
		resp.Winner = &b.Winner.Username
	}
	return resp
}

func newLeaderboard(stats []models.BattleStatistic, pref models.UnitPreference) []models.LeaderboardEntry {
	out := make([]models.LeaderboardEntry, 0, len(stats))
	for i := range stats {
		s := &stats[i]
		out = append(out, models.LeaderboardEntry{
			UserID:        s.UserID,
			Username:      s.User.Username,
			StatType:      s.StatType,
			StartingValue: units.Present(s.StartingValue, s.StatType, pref),
			CurrentValue:  units.Present(s.CurrentValue, s.StatType, pref),
			Progress:      units.Present(s.Progress(), s.StatType, pref),
		})
	}
	return out
}

func newInvitationResponse(inv *models.BattleInvitation) models.BattleInvitationResponse {
	return models.BattleInvitationResponse{
		ID:           inv.ID,
		BattleID:     inv.BattleID,
		BattleName:   inv.Battle.Name,
		InvitedUser:  inv.InvitedUserID,
		InvitingUser: inv.InvitingUser.Username,
		Status:       inv.Status,
		CreatedAt:    inv.CreatedAt,
	}
}
