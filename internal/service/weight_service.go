package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fitbattle-service/internal/apperr"
	"fitbattle-service/internal/events"
	"fitbattle-service/internal/metrics"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"
)

type WeightService struct {
	store     *repository.Store
	publisher events.Publisher
	now       func() time.Time
}

func NewWeightService(store *repository.Store, publisher events.Publisher) *WeightService {
	return &WeightService{
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record stores a measurement for userID and, in the same transaction,
// brings every battle the user is in up to date. Values must already be in
// storage units.
func (s *WeightService) Record(ctx context.Context, userID uint, stat *models.WeightStat) (*models.WeightStat, error) {
	if stat.Empty() {
		return nil, ErrEmptyMeasurement
	}
	now := s.now()
	stat.ID = 0
	stat.UserID = userID
	stat.Date = now

	var finished []models.Battle
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.WeightStats.Create(ctx, stat); err != nil {
			return fmt.Errorf("store measurement: %w", err)
		}
		if err := seedPendingBattles(ctx, tx, stat); err != nil {
			return err
		}
		if err := propagateBattleStats(ctx, tx, stat); err != nil {
			return err
		}
		var err error
		finished, err = checkBattleCompletion(ctx, tx, stat, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record measurement: %w", err)
	}

	metrics.RecordMeasurement()
	for i := range finished {
		b := &finished[i]
		metrics.RecordBattleFinished(string(b.Type))
		slog.Info("Battle finished", "battle_id", b.ID, "type", b.Type, "winner_id", b.WinnerID)
		publishBattleEvent(ctx, s.publisher, events.BattleFinished, b, now)
	}
	return stat, nil
}

// List returns the user's measurements, newest first. startDate and endDate
// are optional YYYY-MM-DD bounds; endDate includes the whole day.
func (s *WeightService) List(ctx context.Context, userID uint, startDate, endDate string) ([]models.WeightStat, error) {
	from, err := parseDateBound(startDate, "start_date")
	if err != nil {
		return nil, err
	}
	to, err := parseDateBound(endDate, "end_date")
	if err != nil {
		return nil, err
	}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, apperr.Validation("start_date must not be after end_date")
	}

	stats, err := s.store.WeightStats.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	return stats, nil
}

func parseDateBound(v, field string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, v, time.UTC)
	if err != nil {
		return nil, apperr.Validation("%s must be YYYY-MM-DD", field)
	}
	return &t, nil
}
