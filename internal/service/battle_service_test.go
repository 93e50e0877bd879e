package service

import (
	"errors"
	"testing"
	"time"

	"fitbattle-service/internal/apperr"
	"fitbattle-service/internal/events"
	"fitbattle-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func weightGoal(goal float64) BattleSpec {
	return BattleSpec{Name: "goal", Type: models.BattleStatGoal, WeightParam: models.MetricWeight, GoalValue: fptr(goal), IsPrivate: false}
}

func weightDuration(days int) BattleSpec {
	return BattleSpec{Name: "time", Type: models.BattleDuration, WeightParam: models.MetricWeight, Duration: iptr(days), IsPrivate: false}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")

	cases := map[string]struct {
		spec BattleSpec
		want error
	}{
		"blank name":        {BattleSpec{Name: "  ", Type: models.BattleStatGoal, WeightParam: models.MetricWeight, GoalValue: fptr(1)}, ErrBattleNameRequired},
		"goal missing":      {BattleSpec{Name: "x", Type: models.BattleStatGoal, WeightParam: models.MetricWeight}, ErrGoalValueRequired},
		"goal not positive": {BattleSpec{Name: "x", Type: models.BattleStatGoal, WeightParam: models.MetricWeight, GoalValue: fptr(0)}, ErrGoalValueRequired},
		"duration missing":  {BattleSpec{Name: "x", Type: models.BattleDuration, WeightParam: models.MetricWeight}, ErrDurationRequired},
		"duration zero":     {BattleSpec{Name: "x", Type: models.BattleDuration, WeightParam: models.MetricWeight, Duration: iptr(0)}, ErrDurationRequired},
		"bmi not tracked":   {BattleSpec{Name: "x", Type: models.BattleDuration, WeightParam: models.MetricBMI, Duration: iptr(3)}, ErrUnsupportedWeightParam},
		"unknown type":      {BattleSpec{Name: "x", Type: "race", WeightParam: models.MetricWeight}, ErrUnsupportedBattleType},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.battles.Create(f.ctx, a.ID, tc.spec)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestCreate_SeedsCreatorFromLatestMeasurement(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	f.record(t, a.ID, models.WeightStat{Weight: fptr(90)})
	f.record(t, a.ID, models.WeightStat{Weight: fptr(89)})

	withStat := f.battle(t, a.ID, weightGoal(80))
	assert.Equal(t, models.BattleNotStarted, withStat.Status)
	require.Len(t, withStat.Participants, 1)
	assert.Equal(t, a.ID, withStat.Participants[0].UserID)

	s := f.statistic(t, withStat.ID, a.ID, models.MetricWeight)
	assert.Equal(t, 89.0, s.StartingValue)

	// no measurement yet: creation succeeds without a statistic
	withoutStat := f.battle(t, b.ID, weightGoal(80))
	_, err := f.store.Statistics.Find(f.ctx, withoutStat.ID, b.ID, models.MetricWeight)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestStart(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	battle := f.battle(t, a.ID, weightGoal(70))

	_, err := f.battles.Start(f.ctx, b.ID, battle.ID)
	assert.ErrorIs(t, err, ErrNotBattleCreator)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	started, err := f.battles.Start(f.ctx, a.ID, battle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BattleInProgress, started.Status)
	require.NotNil(t, started.StartedAt)
	assert.Len(t, f.publisher.ofType(events.BattleStarted), 1)

	_, err = f.battles.Start(f.ctx, a.ID, battle.ID)
	assert.ErrorIs(t, err, ErrBattleAlreadyStarted)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = f.battles.Start(f.ctx, a.ID, 4242)
	assert.ErrorIs(t, err, ErrBattleNotFound)
}

func TestJoin(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")

	private := f.battle(t, a.ID, BattleSpec{Name: "p", Type: models.BattleStatGoal, WeightParam: models.MetricWeight, GoalValue: fptr(70), IsPrivate: true})
	_, err := f.battles.Join(f.ctx, b.ID, private.ID)
	assert.ErrorIs(t, err, ErrBattlePrivate)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	public := f.battle(t, a.ID, weightGoal(70))
	joined, err := f.battles.Join(f.ctx, b.ID, public.ID)
	require.NoError(t, err)
	assert.Len(t, joined.Participants, 2)

	// no measurement: seeded with zero
	s := f.statistic(t, public.ID, b.ID, models.MetricWeight)
	assert.Equal(t, 0.0, s.StartingValue)

	_, err = f.battles.Join(f.ctx, b.ID, public.ID)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)

	// with a measurement: seeded from it
	f.record(t, c.ID, models.WeightStat{Weight: fptr(77)})
	_, err = f.battles.Join(f.ctx, c.ID, public.ID)
	require.NoError(t, err)
	s = f.statistic(t, public.ID, c.ID, models.MetricWeight)
	assert.Equal(t, 77.0, s.CurrentValue)
}

func TestJoin_FinishedBattle(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	battle := f.battle(t, a.ID, weightGoal(70))
	_, err := f.battles.Start(f.ctx, a.ID, battle.ID)
	require.NoError(t, err)
	f.record(t, a.ID, models.WeightStat{Weight: fptr(71)})

	_, err = f.battles.Join(f.ctx, b.ID, battle.ID)
	assert.ErrorIs(t, err, ErrBattleFinished)
}

func TestStatGoal_FinishesAtGoal(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")
	f.record(t, a.ID, models.WeightStat{Weight: fptr(75)})

	battle := f.battle(t, a.ID, weightGoal(70))
	_, err := f.battles.Join(f.ctx, b.ID, battle.ID)
	require.NoError(t, err)
	_, err = f.battles.Invite(f.ctx, a.ID, battle.ID, c.ID)
	require.NoError(t, err)
	_, err = f.battles.Start(f.ctx, a.ID, battle.ID)
	require.NoError(t, err)

	f.record(t, a.ID, models.WeightStat{Weight: fptr(69.9)})
	got, err := f.battles.Get(f.ctx, battle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BattleInProgress, got.Status)

	f.record(t, a.ID, models.WeightStat{Weight: fptr(70.0)})
	got, err = f.battles.Get(f.ctx, battle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BattleFinished, got.Status)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, a.ID, *got.WinnerID)
	require.NotNil(t, got.Winner)
	assert.Equal(t, "a", got.Winner.Username)
	assert.NotNil(t, got.FinishedAt)

	pending, err := f.battles.PendingInvitations(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, pending, "finishing drops invitations")

	finished := f.publisher.ofType(events.BattleFinished)
	require.Len(t, finished, 1)
	assert.Equal(t, battle.ID, finished[0].BattleID)

	// finished battles are no longer touched
	f.record(t, a.ID, models.WeightStat{Weight: fptr(90)})
	s := f.statistic(t, battle.ID, a.ID, models.MetricWeight)
	assert.Equal(t, 70.0, s.CurrentValue)
}

func TestDuration_FinishesAfterDeadlineWithTieBreak(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	f.record(t, a.ID, models.WeightStat{Weight: fptr(80)})
	f.record(t, b.ID, models.WeightStat{Weight: fptr(80)})

	battle := f.battle(t, a.ID, weightDuration(7))
	f.clock.advance(time.Hour)
	_, err := f.battles.Join(f.ctx, b.ID, battle.ID)
	require.NoError(t, err)
	_, err = f.battles.Start(f.ctx, a.ID, battle.ID)
	require.NoError(t, err)

	f.clock.advance(3 * 24 * time.Hour)
	f.record(t, b.ID, models.WeightStat{Weight: fptr(80)})
	got, err := f.battles.Get(f.ctx, battle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BattleInProgress, got.Status, "before the deadline")

	f.clock.advance(4 * 24 * time.Hour)
	f.record(t, b.ID, models.WeightStat{Weight: fptr(80)})

	got, err = f.battles.Get(f.ctx, battle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BattleFinished, got.Status)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, a.ID, *got.WinnerID, "equal values go to the earlier joiner")
}

func TestDuration_HighestCurrentValueWins(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")

	battle := f.battle(t, a.ID, weightDuration(1))
	_, err := f.battles.Join(f.ctx, b.ID, battle.ID)
	require.NoError(t, err)
	_, err = f.battles.Start(f.ctx, a.ID, battle.ID)
	require.NoError(t, err)

	f.record(t, a.ID, models.WeightStat{Weight: fptr(70)})
	f.clock.advance(48 * time.Hour)
	f.record(t, b.ID, models.WeightStat{Weight: fptr(71)})

	got, err := f.battles.Get(f.ctx, battle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BattleFinished, got.Status)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, b.ID, *got.WinnerID)
}

func TestDuration_NoStatisticsFinishesWithoutWinner(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")

	battle := f.battle(t, a.ID, weightDuration(1))
	_, err := f.battles.Start(f.ctx, a.ID, battle.ID)
	require.NoError(t, err)

	f.clock.advance(48 * time.Hour)
	f.record(t, a.ID, models.WeightStat{BodyFat: fptr(18)})

	got, err := f.battles.Get(f.ctx, battle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BattleFinished, got.Status)
	assert.Nil(t, got.WinnerID)
}

func TestPickDurationWinner(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	participants := []models.BattleParticipant{
		{UserID: 3, JoinedAt: t0},
		{UserID: 1, JoinedAt: t0.Add(time.Minute)},
		{UserID: 2, JoinedAt: t0.Add(time.Minute)},
	}
	stat := func(user uint, v float64) models.BattleStatistic {
		return models.BattleStatistic{UserID: user, StatType: models.MetricWeight, CurrentValue: v}
	}

	w := pickDurationWinner(models.MetricWeight, []models.BattleStatistic{stat(1, 60), stat(2, 65), stat(3, 50)}, participants)
	require.NotNil(t, w)
	assert.Equal(t, uint(2), *w)

	w = pickDurationWinner(models.MetricWeight, []models.BattleStatistic{stat(1, 60), stat(3, 60)}, participants)
	require.NotNil(t, w)
	assert.Equal(t, uint(3), *w, "earliest joiner")

	w = pickDurationWinner(models.MetricWeight, []models.BattleStatistic{stat(2, 60), stat(1, 60)}, participants)
	require.NotNil(t, w)
	assert.Equal(t, uint(1), *w, "same join time, lowest id")

	w = pickDurationWinner(models.MetricWeight, []models.BattleStatistic{stat(9, 99)}, participants)
	assert.Nil(t, w, "users who left are ignored")

	assert.Nil(t, pickDurationWinner(models.MetricWeight, nil, participants))
}

func TestInviteAcceptReject(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")
	outsider := f.user(t, "outsider")
	battle := f.battle(t, a.ID, BattleSpec{Name: "p", Type: models.BattleStatGoal, WeightParam: models.MetricWeight, GoalValue: fptr(70), IsPrivate: true})

	_, err := f.battles.Invite(f.ctx, a.ID, battle.ID, 9999)
	assert.ErrorIs(t, err, ErrInvitedUserNotFound)
	_, err = f.battles.Invite(f.ctx, a.ID, battle.ID, a.ID)
	assert.ErrorIs(t, err, ErrSelfInvite)
	_, err = f.battles.Invite(f.ctx, outsider.ID, battle.ID, b.ID)
	assert.ErrorIs(t, err, ErrInviterNotParticipant)

	inv, err := f.battles.Invite(f.ctx, a.ID, battle.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", inv.InvitingUser.Username)

	_, err = f.battles.Invite(f.ctx, a.ID, battle.ID, b.ID)
	assert.ErrorIs(t, err, ErrInvitationExists)

	pending, err := f.battles.PendingInvitations(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, battle.Name, pending[0].Battle.Name)

	// only the invitee can answer
	_, err = f.battles.AcceptInvitation(f.ctx, c.ID, inv.ID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	f.record(t, b.ID, models.WeightStat{Weight: fptr(82)})
	joined, err := f.battles.AcceptInvitation(f.ctx, b.ID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, joined.Participants, 2)
	s := f.statistic(t, battle.ID, b.ID, models.MetricWeight)
	assert.Equal(t, 82.0, s.StartingValue)

	_, err = f.battles.AcceptInvitation(f.ctx, b.ID, inv.ID)
	assert.ErrorIs(t, err, ErrInvitationNotFound, "no longer pending")

	_, err = f.battles.Invite(f.ctx, a.ID, battle.ID, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)

	// accepting without any measurement creates no statistic
	inv2, err := f.battles.Invite(f.ctx, b.ID, battle.ID, c.ID)
	require.NoError(t, err)
	_, err = f.battles.AcceptInvitation(f.ctx, c.ID, inv2.ID)
	require.NoError(t, err)
	_, err = f.store.Statistics.Find(f.ctx, battle.ID, c.ID, models.MetricWeight)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	inv3, err := f.battles.Invite(f.ctx, a.ID, battle.ID, outsider.ID)
	require.NoError(t, err)
	require.NoError(t, f.battles.RejectInvitation(f.ctx, outsider.ID, inv3.ID))
	member, err := f.store.Battles.IsParticipant(f.ctx, battle.ID, outsider.ID)
	require.NoError(t, err)
	assert.False(t, member)
	assert.ErrorIs(t, f.battles.RejectInvitation(f.ctx, outsider.ID, inv3.ID), ErrInvitationNotFound)
}

func TestInvite_FinishedBattle(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	battle := f.battle(t, a.ID, weightGoal(70))
	_, err := f.battles.Start(f.ctx, a.ID, battle.ID)
	require.NoError(t, err)
	f.record(t, a.ID, models.WeightStat{Weight: fptr(75)})

	_, err = f.battles.Invite(f.ctx, a.ID, battle.ID, b.ID)
	assert.ErrorIs(t, err, ErrBattleFinished)
}

func TestLeave(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	battle := f.battle(t, a.ID, weightGoal(70))
	_, err := f.battles.Join(f.ctx, b.ID, battle.ID)
	require.NoError(t, err)

	require.NoError(t, f.battles.Leave(f.ctx, b.ID, battle.ID))
	_, err = f.store.Statistics.Find(f.ctx, battle.ID, b.ID, models.MetricWeight)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = f.battles.Leave(f.ctx, b.ID, battle.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLeaderboard_OrdersByProgress(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")
	for _, u := range []*models.User{a, b, c} {
		f.record(t, u.ID, models.WeightStat{Weight: fptr(80)})
	}
	battle := f.battle(t, a.ID, weightDuration(30))
	for _, u := range []*models.User{b, c} {
		_, err := f.battles.Join(f.ctx, u.ID, battle.ID)
		require.NoError(t, err)
	}
	_, err := f.battles.Start(f.ctx, a.ID, battle.ID)
	require.NoError(t, err)

	f.record(t, a.ID, models.WeightStat{Weight: fptr(78)})
	f.record(t, b.ID, models.WeightStat{Weight: fptr(82)})
	f.record(t, c.ID, models.WeightStat{Weight: fptr(82)})

	stats, err := f.battles.Leaderboard(f.ctx, battle.ID)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, []uint{b.ID, c.ID, a.ID}, []uint{stats[0].UserID, stats[1].UserID, stats[2].UserID})
	assert.InDelta(t, 2.0, stats[0].Progress(), 1e-9)
	assert.Equal(t, "b", stats[0].User.Username)

	_, err = f.battles.Leaderboard(f.ctx, 9999)
	assert.ErrorIs(t, err, ErrBattleNotFound)
}

func TestDelete_RemovesInvitations(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	battle := f.battle(t, a.ID, weightGoal(70))
	_, err := f.battles.Invite(f.ctx, a.ID, battle.ID, b.ID)
	require.NoError(t, err)

	err = f.battles.Delete(f.ctx, b.ID, battle.ID)
	assert.ErrorIs(t, err, ErrNotBattleCreator)

	require.NoError(t, f.battles.Delete(f.ctx, a.ID, battle.ID))

	_, err = f.battles.Get(f.ctx, battle.ID)
	assert.ErrorIs(t, err, ErrBattleNotFound)
	pending, err := f.battles.PendingInvitations(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestList_CreatorAndParticipant(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")
	mine := f.battle(t, a.ID, weightGoal(70))
	f.battle(t, c.ID, weightGoal(70))
	_, err := f.battles.Join(f.ctx, b.ID, mine.ID)
	require.NoError(t, err)

	list, err := f.battles.List(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = f.battles.List(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestJoin_AcceptsPendingInvitation(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	battle := f.battle(t, a.ID, weightGoal(70))

	inv, err := f.battles.Invite(f.ctx, a.ID, battle.ID, b.ID)
	require.NoError(t, err)

	_, err = f.battles.Join(f.ctx, b.ID, battle.ID)
	require.NoError(t, err)

	pending, err := f.battles.PendingInvitations(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	var stored models.BattleInvitation
	require.NoError(t, f.db.First(&stored, inv.ID).Error)
	assert.Equal(t, models.InvitationAccepted, stored.Status)

	_, err = f.battles.AcceptInvitation(f.ctx, b.ID, inv.ID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}
