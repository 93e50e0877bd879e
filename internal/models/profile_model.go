package models

import "time"

// UnitPreference selects how mass values are presented to a user.
type UnitPreference string

const (
	UnitMetric   UnitPreference = "metric"
	UnitImperial UnitPreference = "imperial"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

/** --------------------ENTITIES-------------------- */
// Profile holds the optional personal details of a user. Exactly one per user.
type Profile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio            *string        `gorm:"type:text" json:"bio"`
	DateOfBirth    *time.Time     `gorm:"type:date" json:"date_of_birth"`
	Pronouns       *string        `gorm:"size:50" json:"pronouns"`
	UnitPreference UnitPreference `gorm:"size:10;not null" json:"unit_preference"`
	AvatarURL      *string        `gorm:"size:512" json:"avatar_url"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

/** -------------------- DTOs -------------------- */
// UpdateProfileRequest is a partial update; absent fields are left untouched.
type UpdateProfileRequest struct {
	Bio            *string `json:"bio,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Pronouns       *string `json:"pronouns,omitempty" binding:"omitempty,max=50"`
	UnitPreference *string `json:"unit_preference,omitempty" binding:"omitempty,oneof=metric imperial"`
}

type ProfileResponse struct {
	UserID         uint           `json:"user_id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	Bio            *string        `json:"bio"`
	DateOfBirth    *string        `json:"date_of_birth"`
	Pronouns       *string        `json:"pronouns"`
	UnitPreference UnitPreference `json:"unit_preference"`
	AvatarURL      *string        `json:"avatar_url"`
}

func NewProfileResponse(p *Profile) ProfileResponse {
	resp := ProfileResponse{
		UserID:         p.UserID,
		Username:       p.User.Username,
		Email:          p.User.Email,
		Bio:            p.Bio,
		Pronouns:       p.Pronouns,
		UnitPreference: p.UnitPreference,
		AvatarURL:      p.AvatarURL,
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format(DateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}
