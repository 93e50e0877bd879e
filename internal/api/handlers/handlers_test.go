package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitbattle-service/internal/models"
	"fitbattle-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{service.ErrBattleNotFound, http.StatusNotFound, "battle not found"},
		{fmt.Errorf("failed: %w", service.ErrNotBattleCreator), http.StatusForbidden, "only the battle creator can do this"},
		{service.ErrStorageUnavailable, http.StatusServiceUnavailable, "avatar storage is not configured"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, tc.err)

		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"code":%d,"message":%q}`, tc.status, tc.message), w.Body.String())
	}
}

func TestIDParam(t *testing.T) {
	for _, raw := range []string{"0", "-1", "x"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := idParam(c, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := idParam(c, "id")
	require.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestPresenters_Imperial(t *testing.T) {
	weight, fat, goal := 70.0, 20.0, 80.0
	stat := newWeightStatResponse(&models.WeightStat{Weight: &weight, BodyFat: &fat}, models.UnitImperial)
	assert.Equal(t, 154.3, *stat.Weight)
	assert.Equal(t, 20.0, *stat.BodyFat, "percentages never convert")

	winner := models.User{Username: "bob"}
	winnerID := uint(2)
	b := newBattleResponse(&models.Battle{
		ID:          1,
		WeightParam: models.MetricWeight,
		GoalValue:   &goal,
		CreatedAt:   time.Now(),
		WinnerID:    &winnerID,
		Winner:      &winner,
		Participants: []models.BattleParticipant{
			{UserID: 2, User: winner},
		},
	}, models.UnitImperial)
	assert.Equal(t, 176.4, *b.GoalValue)
	require.NotNil(t, b.Winner)
	assert.Equal(t, "bob", *b.Winner)
	assert.Equal(t, []models.UserSummary{{ID: 2, Username: "bob"}}, b.Participants)

	board := newLeaderboard([]models.BattleStatistic{
		{UserID: 2, StatType: models.MetricWeight, StartingValue: 90, CurrentValue: 85},
		{UserID: 3, StatType: models.MetricBodyFat, StartingValue: 25, CurrentValue: 22},
	}, models.UnitImperial)
	assert.Equal(t, 198.4, board[0].StartingValue)
	assert.Equal(t, -11.0, board[0].Progress)
	assert.Equal(t, -3.0, board[1].Progress)
}
