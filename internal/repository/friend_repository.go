package repository

import (
	"context"

	"fitbattle-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendRepository interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	// RequestExists reports whether from has ever sent a request to to.
	RequestExists(ctx context.Context, fromID, toID uint) (bool, error)
	FindPendingRequestTo(ctx context.Context, requestID, toID uint) (*models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error
	ListRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)

	AddFriendPair(ctx context.Context, userID, friendID uint) error
	RemoveFriendPair(ctx context.Context, userID, friendID uint) (int64, error)
	IsFriend(ctx context.Context, userID, friendID uint) (bool, error)
	ListFriends(ctx context.Context, userID uint) ([]models.Friendship, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func (r *friendRepository) RequestExists(ctx context.Context, fromID, toID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, err
}

func (r *friendRepository) FindPendingRequestTo(ctx context.Context, requestID, toID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("FromUser").Preload("ToUser").
		Where("id = ? AND to_user_id = ? AND status = ?", requestID, toID, models.FriendRequestPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRepository) UpdateRequestStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ?", requestID).
		Update("status", status).Error
}

func (r *friendRepository) ListRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("FromUser").Preload("ToUser").
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("timestamp DESC").Order("id DESC").
		Find(&reqs).Error
	return reqs, err
}

// AddFriendPair creates both directions of the friendship in one statement.
func (r *friendRepository) AddFriendPair(ctx context.Context, userID, friendID uint) error {
	pair := []models.Friendship{
		{UserID: userID, FriendID: friendID},
		{UserID: friendID, FriendID: userID},
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&pair).Error
}

func (r *friendRepository) RemoveFriendPair(ctx context.Context, userID, friendID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Delete(&models.Friendship{})
	return res.RowsAffected, res.Error
}

func (r *friendRepository) IsFriend(ctx context.Context, userID, friendID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

func (r *friendRepository) ListFriends(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var friends []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Friend").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&friends).Error
	return friends, err
}
