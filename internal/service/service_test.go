package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fitbattle-service/internal/auth"
	"fitbattle-service/internal/events"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"
	"fitbattle-service/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) ofType(t events.Type) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// testClock is shared by every service of a fixture so time moves for all.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	ctx       context.Context
	db        *gorm.DB
	store     *repository.Store
	clock     *testClock
	publisher *recordingPublisher
	blacklist *repository.MemoryBlacklist
	users     *UserService
	friends   *FriendService
	weights   *WeightService
	battles   *BattleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := repository.NewStore(db)
	clock := &testClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}
	bl := repository.NewMemoryBlacklist()

	f := &fixture{
		ctx:       context.Background(),
		db:        db,
		store:     store,
		clock:     clock,
		publisher: pub,
		blacklist: bl,
		users:     NewUserService(store, auth.NewTokenManager("test-secret", "fitbattle", time.Hour), bl, nil),
		friends:   NewFriendService(store),
		weights:   NewWeightService(store, pub),
		battles:   NewBattleService(store, pub),
	}
	f.users.now = clock.now
	f.friends.now = clock.now
	f.weights.now = clock.now
	f.battles.now = clock.now
	return f
}

// user creates a user with a metric profile directly through the store.
func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, f.store.Users.Create(f.ctx, u))
	require.NoError(t, f.store.Profiles.Create(f.ctx, &models.Profile{UserID: u.ID, UnitPreference: models.UnitMetric}))
	return u
}

func (f *fixture) record(t *testing.T, userID uint, stat models.WeightStat) *models.WeightStat {
	t.Helper()
	f.clock.advance(time.Second)
	out, err := f.weights.Record(f.ctx, userID, &stat)
	require.NoError(t, err)
	return out
}

func (f *fixture) battle(t *testing.T, creatorID uint, spec BattleSpec) *models.Battle {
	t.Helper()
	b, err := f.battles.Create(f.ctx, creatorID, spec)
	require.NoError(t, err)
	return b
}

func (f *fixture) statistic(t *testing.T, battleID, userID uint, param models.MetricParam) *models.BattleStatistic {
	t.Helper()
	s, err := f.store.Statistics.Find(f.ctx, battleID, userID, param)
	require.NoError(t, err)
	return s
}

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }
