package repository

import (
	"context"

	"fitbattle-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv *models.BattleInvitation) error
	HasPending(ctx context.Context, battleID, invitedUserID uint) (bool, error)
	FindPendingFor(ctx context.Context, id, invitedUserID uint) (*models.BattleInvitation, error)
	UpdateStatus(ctx context.Context, id uint, status models.InvitationStatus) error
	AcceptPending(ctx context.Context, battleID, invitedUserID uint) (int64, error)
	ListPendingFor(ctx context.Context, invitedUserID uint) ([]models.BattleInvitation, error)
	DeleteByBattle(ctx context.Context, battleID uint) (int64, error)
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *models.BattleInvitation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error
}

func (r *invitationRepository) HasPending(ctx context.Context, battleID, invitedUserID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BattleInvitation{}).
		Where("battle_id = ? AND invited_user_id = ? AND status = ?", battleID, invitedUserID, models.InvitationPending).
		Count(&count).Error
	return count > 0, err
}

func (r *invitationRepository) FindPendingFor(ctx context.Context, id, invitedUserID uint) (*models.BattleInvitation, error) {
	var inv models.BattleInvitation
	err := r.db.WithContext(ctx).
		Preload("Battle").
		Where("id = ? AND invited_user_id = ? AND status = ?", id, invitedUserID, models.InvitationPending).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id uint, status models.InvitationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.BattleInvitation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// AcceptPending marks every pending invitation of the user to the battle accepted.
func (r *invitationRepository) AcceptPending(ctx context.Context, battleID, invitedUserID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.BattleInvitation{}).
		Where("battle_id = ? AND invited_user_id = ? AND status = ?", battleID, invitedUserID, models.InvitationPending).
		Update("status", models.InvitationAccepted)
	return res.RowsAffected, res.Error
}

func (r *invitationRepository) ListPendingFor(ctx context.Context, invitedUserID uint) ([]models.BattleInvitation, error) {
	var invs []models.BattleInvitation
	err := r.db.WithContext(ctx).
		Preload("Battle").
		Preload("InvitingUser").
		Where("invited_user_id = ? AND status = ?", invitedUserID, models.InvitationPending).
		Order("created_at DESC").Order("id DESC").
		Find(&invs).Error
	return invs, err
}

func (r *invitationRepository) DeleteByBattle(ctx context.Context, battleID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("battle_id = ?", battleID).Delete(&models.BattleInvitation{})
	return res.RowsAffected, res.Error
}
