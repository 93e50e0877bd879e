package service

import (
	"context"
	"log/slog"
	"time"

	"fitbattle-service/internal/events"
	"fitbattle-service/internal/metrics"
	"fitbattle-service/internal/models"
)

// publishBattleEvent reports a committed lifecycle change. Failures are
// logged and counted, never returned.
func publishBattleEvent(ctx context.Context, p events.Publisher, typ events.Type, b *models.Battle, at time.Time) {
	err := p.Publish(ctx, events.Event{
		Type:       typ,
		BattleID:   b.ID,
		BattleType: string(b.Type),
		WinnerID:   b.WinnerID,
		OccurredAt: at,
	})
	if err != nil {
		metrics.RecordPublishFailure(string(typ))
		slog.Warn("Failed to publish battle event", "type", typ, "battle_id", b.ID, "error", err)
	}
}
