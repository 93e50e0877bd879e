package models

import "time"

type BattleType string

const (
	BattleStatGoal BattleType = "stat_goal"
	BattleDuration BattleType = "duration"
)

type BattleStatus string

const (
	BattleNotStarted BattleStatus = "not_started"
	BattleInProgress BattleStatus = "in_progress"
	BattleFinished   BattleStatus = "finished"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

/** --------------------ENTITIES-------------------- */
// Battle is a competition over one tracked metric. Status only moves forward:
// not_started, in_progress, finished.
type Battle struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:100;not null" json:"name"`
	Description *string      `gorm:"type:text" json:"description"`
	CreatorID   uint         `gorm:"index;not null" json:"creator_id"`
	Type        BattleType   `gorm:"size:10;not null" json:"type"`
	WeightParam MetricParam  `gorm:"size:20;not null" json:"weight_param"`
	GoalValue   *float64     `gorm:"type:decimal(5,2)" json:"goal_value"`
	Duration    *int         `json:"duration"` // days
	IsPrivate   bool         `gorm:"not null" json:"is_private"`
	Status      BattleStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	StartedAt   *time.Time   `json:"started_at"`
	FinishedAt  *time.Time   `json:"finished_at"`
	WinnerID    *uint        `json:"winner_id"`

	Creator      User                `gorm:"foreignKey:CreatorID" json:"-"`
	Winner       *User               `gorm:"foreignKey:WinnerID" json:"-"`
	Participants []BattleParticipant `gorm:"foreignKey:BattleID" json:"-"`
}

// EndsAt is the deadline of a duration battle.
func (b *Battle) EndsAt() (time.Time, bool) {
	if b.Type != BattleDuration || b.Duration == nil {
		return time.Time{}, false
	}
	return b.CreatedAt.AddDate(0, 0, *b.Duration), true
}

// BattleParticipant is a membership row. JoinedAt orders tie-breaks.
type BattleParticipant struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	BattleID uint      `gorm:"uniqueIndex:idx_battle_participants_pair;not null" json:"battle_id"`
	UserID   uint      `gorm:"uniqueIndex:idx_battle_participants_pair;index;not null" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BattleStatistic tracks one participant's progress in one battle.
type BattleStatistic struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	BattleID      uint        `gorm:"uniqueIndex:idx_battle_statistics_key;not null" json:"battle_id"`
	UserID        uint        `gorm:"uniqueIndex:idx_battle_statistics_key;index;not null" json:"user_id"`
	StatType      MetricParam `gorm:"uniqueIndex:idx_battle_statistics_key;size:20;not null" json:"stat_type"`
	StartingValue float64     `gorm:"type:decimal(5,2);not null" json:"starting_value"`
	CurrentValue  float64     `gorm:"type:decimal(5,2);not null" json:"current_value"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Progress is the change since the battle started tracking this user.
func (s *BattleStatistic) Progress() float64 {
	return s.CurrentValue - s.StartingValue
}

type BattleInvitation struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	BattleID       uint             `gorm:"index;not null" json:"battle_id"`
	InvitedUserID  uint             `gorm:"index;not null" json:"invited_user"`
	InvitingUserID uint             `gorm:"not null" json:"inviting_user"`
	Status         InvitationStatus `gorm:"size:10;not null" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`

	Battle       Battle `gorm:"foreignKey:BattleID" json:"-"`
	InvitingUser User   `gorm:"foreignKey:InvitingUserID" json:"-"`
	InvitedUser  User   `gorm:"foreignKey:InvitedUserID" json:"-"`
}

/** -------------------- DTOs -------------------- */
// CreateBattleRequest: GoalValue is in the caller's preferred unit for
// weight battles. IsPrivate defaults to true.
type CreateBattleRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description *string  `json:"description,omitempty"`
	Type        string   `json:"type" binding:"required,oneof=stat_goal duration"`
	WeightParam string   `json:"weight_param" binding:"required,oneof=weight body_fat muscle_mass"`
	GoalValue   *float64 `json:"goal_value,omitempty" binding:"omitempty,gt=0,lte=999.99"`
	Duration    *int     `json:"duration,omitempty" binding:"omitempty,gte=1"`
	IsPrivate   *bool    `json:"is_private,omitempty"`
}

type InviteRequest struct {
	InvitedUser uint `json:"invited_user" binding:"required"`
}

type BattleResponse struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Description  *string       `json:"description"`
	CreatorID    uint          `json:"creator_id"`
	Creator      string        `json:"creator"`
	Type         BattleType    `json:"type"`
	WeightParam  MetricParam   `json:"weight_param"`
	GoalValue    *float64      `json:"goal_value"`
	Duration     *int          `json:"duration"`
	IsPrivate    bool          `json:"is_private"`
	Status       BattleStatus  `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	StartedAt    *time.Time    `json:"started_at"`
	FinishedAt   *time.Time    `json:"finished_at"`
	Participants []UserSummary `json:"participants"`
	WinnerID     *uint         `json:"winner_id"`
	Winner       *string       `json:"winner"`
}

type LeaderboardEntry struct {
	UserID        uint        `json:"user_id"`
	Username      string      `json:"username"`
	StatType      MetricParam `json:"stat_type"`
	StartingValue float64     `json:"starting_value"`
	CurrentValue  float64     `json:"current_value"`
	Progress      float64     `json:"progress"`
}

type BattleInvitationResponse struct {
	ID           uint             `json:"id"`
	BattleID     uint             `json:"battle"`
	BattleName   string           `json:"battle_name"`
	InvitedUser  uint             `json:"invited_user"`
	InvitingUser string           `json:"inviting_user"`
	Status       InvitationStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}
