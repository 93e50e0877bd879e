package service

import "fitbattle-service/internal/apperr"

// Custom errors
var (
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "user not found")
	ErrUserAlreadyExists  = apperr.New(apperr.KindConflict, "username is already taken")
	ErrEmailAlreadyExists = apperr.New(apperr.KindConflict, "email is already registered")
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid credentials")
	ErrProfileNotFound    = apperr.New(apperr.KindNotFound, "profile not found")
	ErrInvalidAvatar      = apperr.New(apperr.KindValidation, "avatar must be an image of at most 5 MiB")
	ErrStorageUnavailable = apperr.New(apperr.KindUnavailable, "avatar storage is not configured")

	ErrEmptyMeasurement = apperr.New(apperr.KindValidation, "at least one measurement field is required")

	ErrSelfFriendRequest     = apperr.New(apperr.KindValidation, "cannot send a friend request to yourself")
	ErrFriendRequestExists   = apperr.New(apperr.KindConflict, "friend request already exists")
	ErrFriendRequestNotFound = apperr.New(apperr.KindNotFound, "friend request not found")
	ErrFriendExists          = apperr.New(apperr.KindConflict, "already friends")
	ErrNotFriends            = apperr.New(apperr.KindNotFound, "friendship not found")
	ErrInvalidFriendAction   = apperr.New(apperr.KindValidation, "action must be accept or reject")

	ErrBattleNotFound         = apperr.New(apperr.KindNotFound, "battle not found")
	ErrNotBattleCreator       = apperr.New(apperr.KindForbidden, "only the battle creator can do this")
	ErrBattleAlreadyStarted   = apperr.New(apperr.KindConflict, "battle has already started")
	ErrBattlePrivate          = apperr.New(apperr.KindForbidden, "battle is private")
	ErrBattleFinished         = apperr.New(apperr.KindConflict, "battle is finished")
	ErrAlreadyParticipant     = apperr.New(apperr.KindConflict, "user is already a participant")
	ErrNotParticipant         = apperr.New(apperr.KindNotFound, "not a participant of this battle")
	ErrInviterNotParticipant  = apperr.New(apperr.KindForbidden, "only participants can invite")
	ErrSelfInvite             = apperr.New(apperr.KindValidation, "cannot invite yourself")
	ErrInvitationExists       = apperr.New(apperr.KindConflict, "a pending invitation already exists")
	ErrInvitationNotFound     = apperr.New(apperr.KindNotFound, "invitation not found")
	ErrInvitedUserNotFound    = apperr.New(apperr.KindNotFound, "invited user not found")
	ErrGoalValueRequired      = apperr.New(apperr.KindValidation, "goal_value is required for stat_goal battles")
	ErrDurationRequired       = apperr.New(apperr.KindValidation, "duration is required for duration battles")
	ErrBattleNameRequired     = apperr.New(apperr.KindValidation, "name is required")
	ErrUnsupportedWeightParam = apperr.New(apperr.KindValidation, "weight_param must be weight, body_fat or muscle_mass")
	ErrUnsupportedBattleType  = apperr.New(apperr.KindValidation, "type must be stat_goal or duration")
)
