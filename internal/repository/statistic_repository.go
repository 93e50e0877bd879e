package repository

import (
	"context"

	"fitbattle-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BattleStatisticRepository interface {
	Find(ctx context.Context, battleID, userID uint, statType models.MetricParam) (*models.BattleStatistic, error)
	Create(ctx context.Context, stat *models.BattleStatistic) error
	Save(ctx context.Context, stat *models.BattleStatistic) error
	ListByBattle(ctx context.Context, battleID uint) ([]models.BattleStatistic, error)
	// ListForUserInStatus returns userID's statistics in battles with the given status.
	ListForUserInStatus(ctx context.Context, userID uint, status models.BattleStatus) ([]models.BattleStatistic, error)
	DeleteForUser(ctx context.Context, battleID, userID uint) error
}

type battleStatisticRepository struct {
	db *gorm.DB
}

func NewBattleStatisticRepository(db *gorm.DB) BattleStatisticRepository {
	return &battleStatisticRepository{db: db}
}

func (r *battleStatisticRepository) Find(ctx context.Context, battleID, userID uint, statType models.MetricParam) (*models.BattleStatistic, error) {
	var stat models.BattleStatistic
	err := r.db.WithContext(ctx).
		Where("battle_id = ? AND user_id = ? AND stat_type = ?", battleID, userID, statType).
		First(&stat).Error
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *battleStatisticRepository) Create(ctx context.Context, stat *models.BattleStatistic) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(stat).Error
}

func (r *battleStatisticRepository) Save(ctx context.Context, stat *models.BattleStatistic) error {
	return r.db.WithContext(ctx).
		Model(stat).
		Select("StartingValue", "CurrentValue").
		Updates(stat).Error
}

func (r *battleStatisticRepository) ListByBattle(ctx context.Context, battleID uint) ([]models.BattleStatistic, error) {
	var stats []models.BattleStatistic
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("battle_id = ?", battleID).
		Order("user_id ASC").
		Find(&stats).Error
	return stats, err
}

func (r *battleStatisticRepository) ListForUserInStatus(ctx context.Context, userID uint, status models.BattleStatus) ([]models.BattleStatistic, error) {
	var stats []models.BattleStatistic
	err := r.db.WithContext(ctx).
		Joins("JOIN battles ON battles.id = battle_statistics.battle_id").
		Where("battle_statistics.user_id = ? AND battles.status = ?", userID, status).
		Order("battle_statistics.id ASC").
		Find(&stats).Error
	return stats, err
}

func (r *battleStatisticRepository) DeleteForUser(ctx context.Context, battleID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("battle_id = ? AND user_id = ?", battleID, userID).
		Delete(&models.BattleStatistic{}).Error
}
