package repository

import (
	"context"
	"time"

	"fitbattle-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BattleRepository interface {
	Create(ctx context.Context, battle *models.Battle) error
	FindByID(ctx context.Context, id uint) (*models.Battle, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Battle, error)
	ListByParticipantAndStatus(ctx context.Context, userID uint, status models.BattleStatus) ([]models.Battle, error)
	SaveState(ctx context.Context, battle *models.Battle) error
	Delete(ctx context.Context, id uint) error

	AddParticipant(ctx context.Context, battleID, userID uint, joinedAt time.Time) error
	RemoveParticipant(ctx context.Context, battleID, userID uint) (int64, error)
	IsParticipant(ctx context.Context, battleID, userID uint) (bool, error)
	Participants(ctx context.Context, battleID uint) ([]models.BattleParticipant, error)
}

type battleRepository struct {
	db *gorm.DB
}

func NewBattleRepository(db *gorm.DB) BattleRepository {
	return &battleRepository{db: db}
}

func (r *battleRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Winner").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC").Order("user_id ASC")
		}).
		Preload("Participants.User")
}

func (r *battleRepository) Create(ctx context.Context, battle *models.Battle) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(battle).Error
}

func (r *battleRepository) FindByID(ctx context.Context, id uint) (*models.Battle, error) {
	var battle models.Battle
	if err := r.withDetails(ctx).First(&battle, id).Error; err != nil {
		return nil, err
	}
	return &battle, nil
}

// ListForUser returns the battles userID created or takes part in, newest first.
func (r *battleRepository) ListForUser(ctx context.Context, userID uint) ([]models.Battle, error) {
	joined := r.db.Model(&models.BattleParticipant{}).Select("battle_id").Where("user_id = ?", userID)

	var battles []models.Battle
	err := r.withDetails(ctx).
		Where("creator_id = ? OR id IN (?)", userID, joined).
		Order("created_at DESC").Order("id DESC").
		Find(&battles).Error
	return battles, err
}

func (r *battleRepository) ListByParticipantAndStatus(ctx context.Context, userID uint, status models.BattleStatus) ([]models.Battle, error) {
	var battles []models.Battle
	err := r.db.WithContext(ctx).
		Joins("JOIN battle_participants ON battle_participants.battle_id = battles.id").
		Where("battle_participants.user_id = ? AND battles.status = ?", userID, status).
		Order("battles.id ASC").
		Find(&battles).Error
	return battles, err
}

// SaveState persists the lifecycle columns of battle.
func (r *battleRepository) SaveState(ctx context.Context, battle *models.Battle) error {
	return r.db.WithContext(ctx).
		Model(battle).
		Select("Status", "StartedAt", "FinishedAt", "WinnerID").
		Updates(battle).Error
}

// Delete removes the battle and everything hanging off it.
func (r *battleRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("battle_id = ?", id).Delete(&models.BattleInvitation{}).Error; err != nil {
		return err
	}
	if err := db.Where("battle_id = ?", id).Delete(&models.BattleStatistic{}).Error; err != nil {
		return err
	}
	if err := db.Where("battle_id = ?", id).Delete(&models.BattleParticipant{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Battle{}, id).Error
}

func (r *battleRepository) AddParticipant(ctx context.Context, battleID, userID uint, joinedAt time.Time) error {
	p := models.BattleParticipant{BattleID: battleID, UserID: userID, JoinedAt: joinedAt}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error
}

func (r *battleRepository) RemoveParticipant(ctx context.Context, battleID, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("battle_id = ? AND user_id = ?", battleID, userID).
		Delete(&models.BattleParticipant{})
	return res.RowsAffected, res.Error
}

func (r *battleRepository) IsParticipant(ctx context.Context, battleID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BattleParticipant{}).
		Where("battle_id = ? AND user_id = ?", battleID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *battleRepository) Participants(ctx context.Context, battleID uint) ([]models.BattleParticipant, error) {
	var ps []models.BattleParticipant
	err := r.db.WithContext(ctx).
		Where("battle_id = ?", battleID).
		Order("joined_at ASC").Order("user_id ASC").
		Find(&ps).Error
	return ps, err
}
