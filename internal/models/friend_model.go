package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

/** --------------------ENTITIES-------------------- */
// FriendRequest is unique per (from, to) pair whatever its status.
type FriendRequest struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	FromUserID uint                `gorm:"uniqueIndex:idx_friend_requests_pair;not null" json:"from_user"`
	ToUserID   uint                `gorm:"uniqueIndex:idx_friend_requests_pair;index;not null" json:"to_user"`
	Status     FriendRequestStatus `gorm:"size:10;not null" json:"status"`
	Timestamp  time.Time           `gorm:"not null" json:"timestamp"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"-"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"-"`
}

// Friendship is one direction of a friendship; rows always come in mirrored pairs.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_friendships_pair;not null" json:"user_id"`
	FriendID  uint      `gorm:"uniqueIndex:idx_friendships_pair;not null" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`

	Friend User `gorm:"foreignKey:FriendID" json:"-"`
}

/** -------------------- DTOs -------------------- */
// SendFriendRequest is the body of POST /friends/requests.
type SendFriendRequest struct {
	ToUser uint `json:"to_user" binding:"required"`
}

type FriendRequestResponse struct {
	ID           uint                `json:"id"`
	FromUser     uint                `json:"from_user"`
	FromUsername string              `json:"from_username"`
	ToUser       uint                `json:"to_user"`
	ToUsername   string              `json:"to_username"`
	Status       FriendRequestStatus `json:"status"`
	Timestamp    time.Time           `json:"timestamp"`
}

// FriendRequestsResponse splits the caller's requests by direction.
type FriendRequestsResponse struct {
	Sent     []FriendRequestResponse `json:"sent"`
	Received []FriendRequestResponse `json:"received"`
}

// FriendResponse represents the friend data returned to the client
type FriendResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func NewFriendRequestResponse(r *FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:           r.ID,
		FromUser:     r.FromUserID,
		FromUsername: r.FromUser.Username,
		ToUser:       r.ToUserID,
		ToUsername:   r.ToUser.Username,
		Status:       r.Status,
		Timestamp:    r.Timestamp,
	}
}
