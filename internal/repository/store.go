package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle so a
// service can run several of them in a single transaction.
type Store struct {
	db *gorm.DB

	Users       UserRepository
	Profiles    ProfileRepository
	WeightStats WeightStatRepository
	Friends     FriendRepository
	Battles     BattleRepository
	Statistics  BattleStatisticRepository
	Invitations InvitationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Profiles:    NewProfileRepository(db),
		WeightStats: NewWeightStatRepository(db),
		Friends:     NewFriendRepository(db),
		Battles:     NewBattleRepository(db),
		Statistics:  NewBattleStatisticRepository(db),
		Invitations: NewInvitationRepository(db),
	}
}

// Transaction runs fn against a Store bound to a new transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
