package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"

	"gorm.io/gorm"
)

type FriendAction string

const (
	FriendActionAccept FriendAction = "accept"
	FriendActionReject FriendAction = "reject"
)

type FriendService struct {
	store *repository.Store
	now   func() time.Time
}

func NewFriendService(store *repository.Store) *FriendService {
	return &FriendService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SendRequest creates a pending request from fromID to toID. A pair can only
// ever hold one request per direction.
func (s *FriendService) SendRequest(ctx context.Context, fromID, toID uint) (*models.FriendRequest, error) {
	if fromID == toID {
		return nil, ErrSelfFriendRequest
	}

	to, err := s.store.Users.FindByID(ctx, toID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if ok, err := s.store.Friends.IsFriend(ctx, fromID, toID); err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	} else if ok {
		return nil, ErrFriendExists
	}
	if ok, err := s.store.Friends.RequestExists(ctx, fromID, toID); err != nil {
		return nil, fmt.Errorf("failed to check friend request: %w", err)
	} else if ok {
		return nil, ErrFriendRequestExists
	}

	from, err := s.store.Users.FindByID(ctx, fromID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	req := &models.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.FriendRequestPending,
		Timestamp:  s.now(),
	}
	if err := s.store.Friends.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}
	req.FromUser = *from
	req.ToUser = *to
	return req, nil
}

// ListRequests returns the requests userID sent and received.
func (s *FriendService) ListRequests(ctx context.Context, userID uint) (*models.FriendRequestsResponse, error) {
	reqs, err := s.store.Friends.ListRequests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}

	resp := &models.FriendRequestsResponse{
		Sent:     []models.FriendRequestResponse{},
		Received: []models.FriendRequestResponse{},
	}
	for i := range reqs {
		r := models.NewFriendRequestResponse(&reqs[i])
		if reqs[i].FromUserID == userID {
			resp.Sent = append(resp.Sent, r)
		} else {
			resp.Received = append(resp.Received, r)
		}
	}
	return resp, nil
}

// RespondToRequest lets the recipient accept or reject a pending request.
// Accepting creates both friendship rows in the same transaction.
func (s *FriendService) RespondToRequest(ctx context.Context, userID, requestID uint, action FriendAction) (*models.FriendRequest, error) {
	var status models.FriendRequestStatus
	switch action {
	case FriendActionAccept:
		status = models.FriendRequestAccepted
	case FriendActionReject:
		status = models.FriendRequestRejected
	default:
		return nil, ErrInvalidFriendAction
	}

	var req *models.FriendRequest
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		req, err = tx.Friends.FindPendingRequestTo(ctx, requestID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFriendRequestNotFound
			}
			return err
		}

		if err := tx.Friends.UpdateRequestStatus(ctx, req.ID, status); err != nil {
			return err
		}
		req.Status = status

		if status != models.FriendRequestAccepted {
			return nil
		}
		already, err := tx.Friends.IsFriend(ctx, req.FromUserID, req.ToUserID)
		if err != nil || already {
			return err
		}
		return tx.Friends.AddFriendPair(ctx, req.FromUserID, req.ToUserID)
	})
	if err != nil {
		if errors.Is(err, ErrFriendRequestNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to respond to friend request: %w", err)
	}
	return req, nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]models.FriendResponse, error) {
	friends, err := s.store.Friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	out := make([]models.FriendResponse, 0, len(friends))
	for _, f := range friends {
		out = append(out, models.FriendResponse{
			ID:        f.FriendID,
			Username:  f.Friend.Username,
			CreatedAt: f.CreatedAt,
		})
	}
	return out, nil
}

// RemoveFriend deletes both directions of the friendship.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	n, err := s.store.Friends.RemoveFriendPair(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	if n == 0 {
		return ErrNotFriends
	}
	return nil
}
