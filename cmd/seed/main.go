package main

import (
	"context"
	"log"
	"log/slog"

	"fitbattle-service/internal/auth"
	"fitbattle-service/internal/config"
	"fitbattle-service/internal/database"
	"fitbattle-service/internal/events"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"
	"fitbattle-service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database seeding...")

	ctx := context.Background()
	db, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	store := repository.NewStore(db)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationTime)
	users := service.NewUserService(store, tokens, repository.NewMemoryBlacklist(), nil)
	friends := service.NewFriendService(store)
	weights := service.NewWeightService(store, events.NopPublisher{})
	battles := service.NewBattleService(store, events.NopPublisher{})

	// Seed initial users
	slog.Info("Creating initial users...")
	testUsers := []struct {
		username string
		email    string
		password string
		weight   float64
		bodyFat  float64
	}{
		{"alice", "alice@fitbattle.dev", "123456", 68.4, 24.1},
		{"bob", "bob@fitbattle.dev", "123456", 91.2, 27.5},
		{"charlie", "charlie@fitbattle.dev", "123456", 77.0, 19.8},
	}

	ids := make(map[string]uint, len(testUsers))
	for _, u := range testUsers {
		user, err := users.Register(ctx, &models.RegisterRequest{Username: u.username, Email: u.email, Password: u.password})
		if err != nil {
			slog.Warn("User might already exist, skipping seed", "username", u.username, "error", err)
			continue
		}
		ids[u.username] = user.ID
		slog.Info("Created user", "username", u.username, "id", user.ID)

		weight, bodyFat := u.weight, u.bodyFat
		if _, err := weights.Record(ctx, user.ID, &models.WeightStat{Weight: &weight, BodyFat: &bodyFat}); err != nil {
			slog.Warn("Failed to record measurement", "username", u.username, "error", err)
		}
	}

	alice, bob, charlie := ids["alice"], ids["bob"], ids["charlie"]
	if alice == 0 || bob == 0 || charlie == 0 {
		slog.Info("Users already present, nothing else to seed")
		return
	}

	// Friendships
	if req, err := friends.SendRequest(ctx, alice, bob); err != nil {
		slog.Warn("Failed to send friend request", "error", err)
	} else if _, err := friends.RespondToRequest(ctx, bob, req.ID, service.FriendActionAccept); err != nil {
		slog.Warn("Failed to accept friend request", "error", err)
	}
	if _, err := friends.SendRequest(ctx, charlie, alice); err != nil {
		slog.Warn("Failed to send friend request", "error", err)
	}

	// A running public battle and a pending private invitation
	days := 30
	battle, err := battles.Create(ctx, alice, service.BattleSpec{
		Name:        "30 day weight challenge",
		Type:        models.BattleDuration,
		WeightParam: models.MetricWeight,
		Duration:    &days,
	})
	if err != nil {
		log.Fatal("Failed to create battle:", err)
	}
	if _, err := battles.Join(ctx, bob, battle.ID); err != nil {
		slog.Warn("Failed to join battle", "error", err)
	}
	if _, err := battles.Start(ctx, alice, battle.ID); err != nil {
		slog.Warn("Failed to start battle", "error", err)
	}

	goal := 30.0
	private, err := battles.Create(ctx, bob, service.BattleSpec{
		Name:        "body fat goal",
		Type:        models.BattleStatGoal,
		WeightParam: models.MetricBodyFat,
		GoalValue:   &goal,
		IsPrivate:   true,
	})
	if err != nil {
		log.Fatal("Failed to create battle:", err)
	}
	if _, err := battles.Invite(ctx, bob, private.ID, charlie); err != nil {
		slog.Warn("Failed to invite", "error", err)
	}

	slog.Info("Database seeding completed successfully!")
}
