package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"fitbattle-service/internal/adapters/storage"
	"fitbattle-service/internal/apperr"
	"fitbattle-service/internal/auth"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxAvatarBytes  = 5 << 20
	searchLimit     = 20
	minSearchLength = 1
)

// AvatarStore uploads profile pictures and returns their public URL.
type AvatarStore interface {
	UploadImage(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error)
}

type UserService struct {
	store     *repository.Store
	tokens    *auth.TokenManager
	blacklist repository.TokenBlacklist
	avatars   AvatarStore
	now       func() time.Time
}

// NewUserService wires account and profile operations. avatars may be nil
// when object storage is not configured.
func NewUserService(store *repository.Store, tokens *auth.TokenManager, blacklist repository.TokenBlacklist, avatars AvatarStore) *UserService {
	return &UserService{
		store:     store,
		tokens:    tokens,
		blacklist: blacklist,
		avatars:   avatars,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the user and its profile in one transaction.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	taken, err := s.store.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUserAlreadyExists
	}
	taken, err = s.store.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, Password: string(hashedPassword)}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return tx.Profiles.Create(ctx, &models.Profile{
			UserID:         user.ID,
			UnitPreference: models.UnitMetric,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.store.Users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      models.NewUserResponse(user),
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperr.New(apperr.KindUnauthorized, "invalid token")
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.store.Profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// UnitPreference returns how userID wants mass values presented.
func (s *UserService) UnitPreference(ctx context.Context, userID uint) (models.UnitPreference, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return models.UnitMetric, err
	}
	return profile.UnitPreference, nil
}

// UpdateProfile applies the fields present in req. An empty string clears
// an optional text field.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		profile.Bio = emptyToNil(*req.Bio)
	}
	if req.Pronouns != nil {
		profile.Pronouns = emptyToNil(strings.TrimSpace(*req.Pronouns))
	}
	if req.UnitPreference != nil {
		profile.UnitPreference = models.UnitPreference(*req.UnitPreference)
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			profile.DateOfBirth = nil
		} else {
			dob, err := time.Parse(models.DateLayout, *req.DateOfBirth)
			if err != nil {
				return nil, apperr.Validation("date_of_birth must be YYYY-MM-DD")
			}
			if dob.After(s.now()) {
				return nil, apperr.Validation("date_of_birth cannot be in the future")
			}
			profile.DateOfBirth = &dob
		}
	}

	if err := s.store.Profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// UpdateAvatar stores file as the user's profile picture.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (*models.Profile, error) {
	if s.avatars == nil {
		return nil, ErrStorageUnavailable
	}
	if file == nil || file.Size <= 0 || file.Size > maxAvatarBytes ||
		!strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return nil, ErrInvalidAvatar
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.avatars.UploadImage(ctx, storage.ObjectName(fmt.Sprintf("avatars/%d", userID), file), file)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to store avatar", err)
	}
	profile.AvatarURL = &url
	if err := s.store.Profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// Search finds other users whose username contains query.
func (s *UserService) Search(ctx context.Context, userID uint, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchLength {
		return []models.UserSummary{}, nil
	}

	users, err := s.store.Users.Search(ctx, query, userID, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, models.UserSummary{ID: u.ID, Username: u.Username})
	}
	return out, nil
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
