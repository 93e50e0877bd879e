package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"

	"gorm.io/gorm"
)

// The procedures in this file run inside the transaction of a measurement
// write, in the order seed, propagate, complete.

// seedPendingBattles resets the statistic of every not-yet-started battle the
// user is in to the new measurement.
func seedPendingBattles(ctx context.Context, tx *repository.Store, stat *models.WeightStat) error {
	battles, err := tx.Battles.ListByParticipantAndStatus(ctx, stat.UserID, models.BattleNotStarted)
	if err != nil {
		return fmt.Errorf("list pending battles: %w", err)
	}
	for _, b := range battles {
		v := stat.Value(b.WeightParam)
		if v == nil {
			continue
		}
		if err := upsertStatistic(ctx, tx, b.ID, stat.UserID, b.WeightParam, *v); err != nil {
			return err
		}
	}
	return nil
}

// propagateBattleStats moves current_value of the user's running battles to
// the new measurement. Running battles without a statistic yet get one.
func propagateBattleStats(ctx context.Context, tx *repository.Store, stat *models.WeightStat) error {
	stats, err := tx.Statistics.ListForUserInStatus(ctx, stat.UserID, models.BattleInProgress)
	if err != nil {
		return fmt.Errorf("list running statistics: %w", err)
	}

	type key struct {
		battleID uint
		param    models.MetricParam
	}
	tracked := make(map[key]bool, len(stats))
	for i := range stats {
		s := &stats[i]
		tracked[key{s.BattleID, s.StatType}] = true

		v := stat.Value(s.StatType)
		if v == nil {
			continue
		}
		s.CurrentValue = *v
		if err := tx.Statistics.Save(ctx, s); err != nil {
			return fmt.Errorf("update statistic %d: %w", s.ID, err)
		}
	}

	battles, err := tx.Battles.ListByParticipantAndStatus(ctx, stat.UserID, models.BattleInProgress)
	if err != nil {
		return fmt.Errorf("list running battles: %w", err)
	}
	for _, b := range battles {
		if tracked[key{b.ID, b.WeightParam}] {
			continue
		}
		v := stat.Value(b.WeightParam)
		if v == nil {
			continue
		}
		if err := tx.Statistics.Create(ctx, &models.BattleStatistic{
			BattleID:      b.ID,
			UserID:        stat.UserID,
			StatType:      b.WeightParam,
			StartingValue: *v,
			CurrentValue:  *v,
		}); err != nil {
			return fmt.Errorf("create statistic: %w", err)
		}
	}
	return nil
}

// checkBattleCompletion finishes every running battle of the user whose end
// condition now holds and returns them.
func checkBattleCompletion(ctx context.Context, tx *repository.Store, stat *models.WeightStat, now time.Time) ([]models.Battle, error) {
	battles, err := tx.Battles.ListByParticipantAndStatus(ctx, stat.UserID, models.BattleInProgress)
	if err != nil {
		return nil, fmt.Errorf("list running battles: %w", err)
	}

	var finished []models.Battle
	for i := range battles {
		b := &battles[i]
		var (
			done   bool
			winner *uint
		)

		switch b.Type {
		case models.BattleStatGoal:
			v := stat.Value(b.WeightParam)
			if v != nil && b.GoalValue != nil && *v >= *b.GoalValue {
				done = true
				id := stat.UserID
				winner = &id
			}
		case models.BattleDuration:
			if end, ok := b.EndsAt(); ok && !now.Before(end) {
				done = true
				winner, err = durationWinner(ctx, tx, b)
				if err != nil {
					return nil, err
				}
			}
		}

		if !done {
			continue
		}
		if err := finishBattle(ctx, tx, b, winner, now); err != nil {
			return nil, err
		}
		finished = append(finished, *b)
	}
	return finished, nil
}

func durationWinner(ctx context.Context, tx *repository.Store, b *models.Battle) (*uint, error) {
	stats, err := tx.Statistics.ListByBattle(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("list battle statistics: %w", err)
	}
	participants, err := tx.Battles.Participants(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return pickDurationWinner(b.WeightParam, stats, participants), nil
}

// pickDurationWinner returns the user with the highest current value for
// param. Ties go to the earliest joiner, then the lowest user id. Users who
// left the battle are ignored.
func pickDurationWinner(param models.MetricParam, stats []models.BattleStatistic, participants []models.BattleParticipant) *uint {
	joined := make(map[uint]time.Time, len(participants))
	for _, p := range participants {
		joined[p.UserID] = p.JoinedAt
	}

	candidates := make([]models.BattleStatistic, 0, len(stats))
	for _, s := range stats {
		if _, ok := joined[s.UserID]; ok && s.StatType == param {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.CurrentValue != b.CurrentValue {
			return a.CurrentValue > b.CurrentValue
		}
		ja, jb := joined[a.UserID], joined[b.UserID]
		if !ja.Equal(jb) {
			return ja.Before(jb)
		}
		return a.UserID < b.UserID
	})
	id := candidates[0].UserID
	return &id
}

// finishBattle records the outcome and drops the battle's invitations.
func finishBattle(ctx context.Context, tx *repository.Store, b *models.Battle, winner *uint, now time.Time) error {
	b.Status = models.BattleFinished
	b.WinnerID = winner
	b.FinishedAt = &now
	if err := tx.Battles.SaveState(ctx, b); err != nil {
		return fmt.Errorf("finish battle %d: %w", b.ID, err)
	}
	if _, err := tx.Invitations.DeleteByBattle(ctx, b.ID); err != nil {
		return fmt.Errorf("delete invitations of battle %d: %w", b.ID, err)
	}
	return nil
}

// upsertStatistic sets both values of the (battle, user, param) statistic,
// creating it when missing.
func upsertStatistic(ctx context.Context, tx *repository.Store, battleID, userID uint, param models.MetricParam, value float64) error {
	existing, err := tx.Statistics.Find(ctx, battleID, userID, param)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Statistics.Create(ctx, &models.BattleStatistic{
			BattleID:      battleID,
			UserID:        userID,
			StatType:      param,
			StartingValue: value,
			CurrentValue:  value,
		})
	case err != nil:
		return fmt.Errorf("find statistic: %w", err)
	}
	existing.StartingValue = value
	existing.CurrentValue = value
	return tx.Statistics.Save(ctx, existing)
}

// seedFromLatest seeds a new participant's statistic from their most recent
// measurement. With zeroFallback a missing value seeds 0, otherwise nothing
// is created.
func seedFromLatest(ctx context.Context, tx *repository.Store, b *models.Battle, userID uint, zeroFallback bool) error {
	var value *float64
	latest, err := tx.WeightStats.Latest(ctx, userID)
	switch {
	case err == nil:
		value = latest.Value(b.WeightParam)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("latest measurement: %w", err)
	}

	if value == nil {
		if !zeroFallback {
			return nil
		}
		zero := 0.0
		value = &zero
	}
	return upsertStatistic(ctx, tx, b.ID, userID, b.WeightParam, *value)
}
