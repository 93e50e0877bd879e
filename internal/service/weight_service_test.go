package service

import (
	"testing"
	"time"

	"fitbattle-service/internal/apperr"
	"fitbattle-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_RejectsEmptyMeasurement(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a")

	_, err := f.weights.Record(f.ctx, u.ID, &models.WeightStat{})
	assert.ErrorIs(t, err, ErrEmptyMeasurement)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRecord_StampsUserAndDate(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a")

	stat := f.record(t, u.ID, models.WeightStat{UserID: 999, Weight: fptr(80.5)})
	assert.Equal(t, u.ID, stat.UserID)
	assert.Equal(t, f.clock.now(), stat.Date)
	assert.NotZero(t, stat.ID)
}

func TestList_DateRangeIsInclusive(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a")

	f.clock.t = time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	f.record(t, u.ID, models.WeightStat{Weight: fptr(81)})
	f.clock.t = time.Date(2024, 5, 2, 23, 30, 0, 0, time.UTC)
	f.record(t, u.ID, models.WeightStat{Weight: fptr(80)})
	f.clock.t = time.Date(2024, 5, 3, 7, 0, 0, 0, time.UTC)
	f.record(t, u.ID, models.WeightStat{Weight: fptr(79)})

	stats, err := f.weights.List(f.ctx, u.ID, "2024-05-02", "2024-05-02")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 80.0, *stats[0].Weight)

	stats, err = f.weights.List(f.ctx, u.ID, "", "")
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, 79.0, *stats[0].Weight, "newest first")

	_, err = f.weights.List(f.ctx, u.ID, "05/02/2024", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.weights.List(f.ctx, u.ID, "2024-05-03", "2024-05-01")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRecord_SeedsNotStartedBattles(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.battle(t, a.ID, BattleSpec{Name: "cut", Type: models.BattleStatGoal, WeightParam: models.MetricWeight, GoalValue: fptr(70)})

	f.record(t, a.ID, models.WeightStat{Weight: fptr(85)})
	s := f.statistic(t, b.ID, a.ID, models.MetricWeight)
	assert.Equal(t, 85.0, s.StartingValue)
	assert.Equal(t, 85.0, s.CurrentValue)

	// every pre-start measurement resets the baseline
	f.record(t, a.ID, models.WeightStat{Weight: fptr(84)})
	s = f.statistic(t, b.ID, a.ID, models.MetricWeight)
	assert.Equal(t, 84.0, s.StartingValue)
	assert.Equal(t, 84.0, s.CurrentValue)

	// measurements without the tracked field leave it alone
	f.record(t, a.ID, models.WeightStat{BodyFat: fptr(20)})
	s = f.statistic(t, b.ID, a.ID, models.MetricWeight)
	assert.Equal(t, 84.0, s.StartingValue)
}

func TestRecord_PropagatesToRunningBattles(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	f.record(t, a.ID, models.WeightStat{Weight: fptr(90), MuscleMass: fptr(35)})

	weight := f.battle(t, a.ID, BattleSpec{Name: "w", Type: models.BattleDuration, WeightParam: models.MetricWeight, Duration: iptr(30)})
	muscle := f.battle(t, a.ID, BattleSpec{Name: "m", Type: models.BattleDuration, WeightParam: models.MetricMuscleMass, Duration: iptr(30)})
	_, err := f.battles.Start(f.ctx, a.ID, weight.ID)
	require.NoError(t, err)
	_, err = f.battles.Start(f.ctx, a.ID, muscle.ID)
	require.NoError(t, err)

	f.record(t, a.ID, models.WeightStat{Weight: fptr(88)})

	ws := f.statistic(t, weight.ID, a.ID, models.MetricWeight)
	assert.Equal(t, 90.0, ws.StartingValue)
	assert.Equal(t, 88.0, ws.CurrentValue)

	ms := f.statistic(t, muscle.ID, a.ID, models.MetricMuscleMass)
	assert.Equal(t, 35.0, ms.CurrentValue, "null field does not overwrite")
}

func TestRecord_CreatesMissingStatisticForRunningBattle(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.battle(t, a.ID, BattleSpec{Name: "fat", Type: models.BattleDuration, WeightParam: models.MetricBodyFat, Duration: iptr(10)})
	_, err := f.battles.Start(f.ctx, a.ID, b.ID)
	require.NoError(t, err)

	f.record(t, a.ID, models.WeightStat{BodyFat: fptr(22.5)})

	s := f.statistic(t, b.ID, a.ID, models.MetricBodyFat)
	assert.Equal(t, 22.5, s.StartingValue)
	assert.Equal(t, 22.5, s.CurrentValue)
}
