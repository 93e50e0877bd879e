package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"fitbattle-service/internal/events"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"

	"gorm.io/gorm"
)

// BattleSpec is a validated battle definition with values in storage units.
type BattleSpec struct {
	Name        string
	Description *string
	Type        models.BattleType
	WeightParam models.MetricParam
	GoalValue   *float64
	Duration    *int
	IsPrivate   bool
}

type BattleService struct {
	store     *repository.Store
	publisher events.Publisher
	now       func() time.Time
}

func NewBattleService(store *repository.Store, publisher events.Publisher) *BattleService {
	return &BattleService{
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *BattleService) findBattle(ctx context.Context, tx *repository.Store, id uint) (*models.Battle, error) {
	b, err := tx.Battles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBattleNotFound
		}
		return nil, fmt.Errorf("failed to load battle: %w", err)
	}
	return b, nil
}

func validateSpec(spec *BattleSpec) error {
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		return ErrBattleNameRequired
	}
	switch spec.WeightParam {
	case models.MetricWeight, models.MetricBodyFat, models.MetricMuscleMass:
	default:
		return ErrUnsupportedWeightParam
	}
	switch spec.Type {
	case models.BattleStatGoal:
		if spec.GoalValue == nil || *spec.GoalValue <= 0 {
			return ErrGoalValueRequired
		}
		spec.Duration = nil
	case models.BattleDuration:
		if spec.Duration == nil || *spec.Duration < 1 {
			return ErrDurationRequired
		}
		spec.GoalValue = nil
	default:
		return ErrUnsupportedBattleType
	}
	return nil
}

// Create stores a new battle with its creator as first participant. The
// creator's statistic is seeded from their latest measurement when it has a
// value for the tracked parameter.
func (s *BattleService) Create(ctx context.Context, creatorID uint, spec BattleSpec) (*models.Battle, error) {
	if err := validateSpec(&spec); err != nil {
		return nil, err
	}
	now := s.now()
	battle := &models.Battle{
		Name:        spec.Name,
		Description: spec.Description,
		CreatorID:   creatorID,
		Type:        spec.Type,
		WeightParam: spec.WeightParam,
		GoalValue:   spec.GoalValue,
		Duration:    spec.Duration,
		IsPrivate:   spec.IsPrivate,
		Status:      models.BattleNotStarted,
		CreatedAt:   now,
	}

	var created *models.Battle
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Battles.Create(ctx, battle); err != nil {
			return err
		}
		if err := tx.Battles.AddParticipant(ctx, battle.ID, creatorID, now); err != nil {
			return err
		}
		if err := seedFromLatest(ctx, tx, battle, creatorID, false); err != nil {
			return err
		}
		var err error
		created, err = s.findBattle(ctx, tx, battle.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create battle: %w", err)
	}

	slog.Info("Battle created", "battle_id", created.ID, "creator_id", creatorID, "type", created.Type)
	return created, nil
}

// List returns the battles the user created or takes part in.
func (s *BattleService) List(ctx context.Context, userID uint) ([]models.Battle, error) {
	battles, err := s.store.Battles.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list battles: %w", err)
	}
	return battles, nil
}

func (s *BattleService) Get(ctx context.Context, battleID uint) (*models.Battle, error) {
	return s.findBattle(ctx, s.store, battleID)
}

// Start moves a battle from not_started to in_progress. Only the creator may
// start it.
func (s *BattleService) Start(ctx context.Context, userID, battleID uint) (*models.Battle, error) {
	var battle *models.Battle
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := s.findBattle(ctx, tx, battleID)
		if err != nil {
			return err
		}
		if b.CreatorID != userID {
			return ErrNotBattleCreator
		}
		if b.Status != models.BattleNotStarted {
			return ErrBattleAlreadyStarted
		}
		now := s.now()
		b.Status = models.BattleInProgress
		b.StartedAt = &now
		if err := tx.Battles.SaveState(ctx, b); err != nil {
			return err
		}
		battle = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishBattleEvent(ctx, s.publisher, events.BattleStarted, battle, *battle.StartedAt)
	return battle, nil
}

// Join adds the user to a public battle. The statistic is seeded from the
// user's latest measurement, or 0 without one.
func (s *BattleService) Join(ctx context.Context, userID, battleID uint) (*models.Battle, error) {
	var battle *models.Battle
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := s.findBattle(ctx, tx, battleID)
		if err != nil {
			return err
		}
		if b.IsPrivate {
			return ErrBattlePrivate
		}
		if b.Status == models.BattleFinished {
			return ErrBattleFinished
		}
		if err := s.addParticipant(ctx, tx, b, userID, true); err != nil {
			return err
		}
		battle, err = s.findBattle(ctx, tx, battleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return battle, nil
}

func (s *BattleService) addParticipant(ctx context.Context, tx *repository.Store, b *models.Battle, userID uint, zeroFallback bool) error {
	member, err := tx.Battles.IsParticipant(ctx, b.ID, userID)
	if err != nil {
		return fmt.Errorf("check participant: %w", err)
	}
	if member {
		return ErrAlreadyParticipant
	}
	if err := tx.Battles.AddParticipant(ctx, b.ID, userID, s.now()); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	// joining by any path answers the user's open invitations
	if _, err := tx.Invitations.AcceptPending(ctx, b.ID, userID); err != nil {
		return fmt.Errorf("accept invitations: %w", err)
	}
	return seedFromLatest(ctx, tx, b, userID, zeroFallback)
}

// Leave removes the user and their statistics from the battle.
func (s *BattleService) Leave(ctx context.Context, userID, battleID uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := s.findBattle(ctx, tx, battleID); err != nil {
			return err
		}
		n, err := tx.Battles.RemoveParticipant(ctx, battleID, userID)
		if err != nil {
			return fmt.Errorf("remove participant: %w", err)
		}
		if n == 0 {
			return ErrNotParticipant
		}
		return tx.Statistics.DeleteForUser(ctx, battleID, userID)
	})
}

// Delete removes a battle with its participants, statistics and invitations.
func (s *BattleService) Delete(ctx context.Context, userID, battleID uint) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := s.findBattle(ctx, tx, battleID)
		if err != nil {
			return err
		}
		if b.CreatorID != userID {
			return ErrNotBattleCreator
		}
		return tx.Battles.Delete(ctx, battleID)
	})
	if err != nil {
		return err
	}
	slog.Info("Battle deleted", "battle_id", battleID, "user_id", userID)
	return nil
}

// Leaderboard ranks the battle's statistics by progress, highest first,
// breaking ties by user id.
func (s *BattleService) Leaderboard(ctx context.Context, battleID uint) ([]models.BattleStatistic, error) {
	if _, err := s.findBattle(ctx, s.store, battleID); err != nil {
		return nil, err
	}
	stats, err := s.store.Statistics.ListByBattle(ctx, battleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		pi, pj := stats[i].Progress(), stats[j].Progress()
		if pi != pj {
			return pi > pj
		}
		return stats[i].UserID < stats[j].UserID
	})
	return stats, nil
}

// Invite asks another user to join the battle. The inviter must be a
// participant.
func (s *BattleService) Invite(ctx context.Context, inviterID, battleID, inviteeID uint) (*models.BattleInvitation, error) {
	var inv *models.BattleInvitation
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := s.findBattle(ctx, tx, battleID)
		if err != nil {
			return err
		}
		if b.Status == models.BattleFinished {
			return ErrBattleFinished
		}
		if inviteeID == inviterID {
			return ErrSelfInvite
		}
		if ok, err := tx.Battles.IsParticipant(ctx, battleID, inviterID); err != nil {
			return err
		} else if !ok {
			return ErrInviterNotParticipant
		}

		invitee, err := tx.Users.FindByID(ctx, inviteeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvitedUserNotFound
			}
			return err
		}
		if ok, err := tx.Battles.IsParticipant(ctx, battleID, inviteeID); err != nil {
			return err
		} else if ok {
			return ErrAlreadyParticipant
		}
		if ok, err := tx.Invitations.HasPending(ctx, battleID, inviteeID); err != nil {
			return err
		} else if ok {
			return ErrInvitationExists
		}

		inviter, err := tx.Users.FindByID(ctx, inviterID)
		if err != nil {
			return err
		}
		inv = &models.BattleInvitation{
			BattleID:       battleID,
			InvitedUserID:  inviteeID,
			InvitingUserID: inviterID,
			Status:         models.InvitationPending,
			CreatedAt:      s.now(),
		}
		if err := tx.Invitations.Create(ctx, inv); err != nil {
			return err
		}
		inv.Battle = *b
		inv.InvitingUser = *inviter
		inv.InvitedUser = *invitee
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// PendingInvitations lists invitations addressed to the user that await an answer.
func (s *BattleService) PendingInvitations(ctx context.Context, userID uint) ([]models.BattleInvitation, error) {
	invs, err := s.store.Invitations.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invs, nil
}

// AcceptInvitation adds the invitee to the battle and seeds their statistic
// the same way Create does for the creator. The invitation is marked accepted
// by addParticipant.
func (s *BattleService) AcceptInvitation(ctx context.Context, userID, invitationID uint) (*models.Battle, error) {
	var battle *models.Battle
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		inv, err := s.pendingInvitation(ctx, tx, userID, invitationID)
		if err != nil {
			return err
		}
		b := &inv.Battle
		if b.Status == models.BattleFinished {
			return ErrBattleFinished
		}
		if err := s.addParticipant(ctx, tx, b, userID, false); err != nil {
			return err
		}
		battle, err = s.findBattle(ctx, tx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return battle, nil
}

// RejectInvitation marks the invitation rejected.
func (s *BattleService) RejectInvitation(ctx context.Context, userID, invitationID uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		inv, err := s.pendingInvitation(ctx, tx, userID, invitationID)
		if err != nil {
			return err
		}
		return tx.Invitations.UpdateStatus(ctx, inv.ID, models.InvitationRejected)
	})
}

func (s *BattleService) pendingInvitation(ctx context.Context, tx *repository.Store, userID, invitationID uint) (*models.BattleInvitation, error) {
	inv, err := tx.Invitations.FindPendingFor(ctx, invitationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	return inv, nil
}
