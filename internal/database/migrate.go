package database

import (
	"fmt"

	"fitbattle-service/internal/models"

	"gorm.io/gorm"
)

// Migrate runs database migrations for all models
func Migrate(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.WeightStat{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Battle{},
		&models.BattleParticipant{},
		&models.BattleStatistic{},
		&models.BattleInvitation{},
	}

	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return addIndexes(db)
}

func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		model any
		name  string
		sql   string
	}{
		{&models.BattleInvitation{}, "idx_battle_invitations_invitee_status", "CREATE INDEX idx_battle_invitations_invitee_status ON battle_invitations (invited_user_id, status)"},
		{&models.Battle{}, "idx_battles_public_status", "CREATE INDEX idx_battles_public_status ON battles (is_private, status)"},
	}

	m := db.Migrator()
	for _, idx := range indexes {
		if m.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to add index %s: %w", idx.name, err)
		}
	}
	return nil
}
