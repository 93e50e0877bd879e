package repository

import (
	"context"
	"time"

	"fitbattle-service/internal/models"

	"gorm.io/gorm"
)

type WeightStatRepository interface {
	Create(ctx context.Context, stat *models.WeightStat) error
	// ListByUser returns measurements newest first, bounded by [from, to) when set.
	ListByUser(ctx context.Context, userID uint, from, to *time.Time) ([]models.WeightStat, error)
	Latest(ctx context.Context, userID uint) (*models.WeightStat, error)
}

type weightStatRepository struct {
	db *gorm.DB
}

func NewWeightStatRepository(db *gorm.DB) WeightStatRepository {
	return &weightStatRepository{db: db}
}

func (r *weightStatRepository) Create(ctx context.Context, stat *models.WeightStat) error {
	return r.db.WithContext(ctx).Create(stat).Error
}

func (r *weightStatRepository) ListByUser(ctx context.Context, userID uint, from, to *time.Time) ([]models.WeightStat, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", *to)
	}

	var stats []models.WeightStat
	err := q.Order("date DESC").Order("id DESC").Find(&stats).Error
	return stats, err
}

func (r *weightStatRepository) Latest(ctx context.Context, userID uint) (*models.WeightStat, error) {
	var stat models.WeightStat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").Order("id DESC").
		First(&stat).Error
	if err != nil {
		return nil, err
	}
	return &stat, nil
}
