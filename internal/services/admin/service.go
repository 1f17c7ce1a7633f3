// Package admin holds operations reserved for administrators: bulk user
// registration and location management.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/geo"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	"github.com/princekumarofficial/autohouse-service/internal/types/offers"
	userTypes "github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/princekumarofficial/autohouse-service/internal/utils/password"
)

const generatedPasswordLength = 8

// Credentials is a generated account returned to the admin who created it.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type BulkRegisterResult struct {
	Created []Credentials `json:"created"`
	Skipped []string      `json:"skipped"`
}

type Service struct {
	users     storage.Users
	locations storage.Locations
	batchSize int
	logger    *slog.Logger
}

func NewService(users storage.Users, locations storage.Locations, batchSize int, logger *slog.Logger) *Service {
	if batchSize < 1 {
		batchSize = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, locations: locations, batchSize: batchSize, logger: logger}
}

// EnsureAdmin fails with ErrForbidden unless the account exists and has the
// ADMIN role.
func (s *Service) EnsureAdmin(ctx context.Context, adminID string) error {
	admin, err := s.users.GetUserByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.IsAdmin() {
		return fmt.Errorf("user %s is not an admin: %w", adminID, types.ErrForbidden)
	}
	return nil
}

func nextPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:generatedPasswordLength]
}

// BulkRegisterUsers creates plain USER accounts with generated passwords.
// Existing usernames and repeats within the request are skipped. Accounts are
// written in batches of the configured size.
func (s *Service) BulkRegisterUsers(ctx context.Context, adminID string, usernames []string) (BulkRegisterResult, error) {
	if err := s.EnsureAdmin(ctx, adminID); err != nil {
		return BulkRegisterResult{}, err
	}

	existing, err := s.users.ExistingUsernames(ctx, usernames)
	if err != nil {
		return BulkRegisterResult{}, err
	}
	skip := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		skip[strings.ToLower(name)] = struct{}{}
	}

	result := BulkRegisterResult{Created: []Credentials{}, Skipped: []string{}}
	start := time.Now()
	batch := make([]userTypes.User, 0, s.batchSize)

	save := func() error {
		if len(batch) == 0 {
			return nil
		}
		batchStart := time.Now()
		if err := s.users.CreateUsers(ctx, batch); err != nil {
			return err
		}
		s.logger.Info("Saved user batch",
			slog.Int("size", len(batch)),
			slog.Duration("took", time.Since(batchStart)))
		batch = batch[:0]
		return nil
	}

	for _, raw := range usernames {
		username := strings.TrimSpace(raw)
		key := strings.ToLower(username)
		if _, ok := skip[key]; ok {
			result.Skipped = append(result.Skipped, username)
			continue
		}
		skip[key] = struct{}{}

		plain := nextPassword()
		hashed, err := password.HashPassword(plain)
		if err != nil {
			return BulkRegisterResult{}, fmt.Errorf("failed to hash password: %w", err)
		}
		batch = append(batch, userTypes.User{
			Username: username,
			Password: hashed,
			Enabled:  true,
			Roles:    userTypes.InheritedRoles(userTypes.RoleUser),
		})
		result.Created = append(result.Created, Credentials{Username: username, Password: plain})

		if len(batch) == s.batchSize {
			if err := save(); err != nil {
				return BulkRegisterResult{}, err
			}
		}
	}
	if err := save(); err != nil {
		return BulkRegisterResult{}, err
	}

	s.logger.Info("Bulk user registration finished",
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Duration("took", time.Since(start)))
	return result, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]userTypes.UserSummary, error) {
	return s.users.ListUsers(ctx)
}

func (s *Service) ListLocations(ctx context.Context) ([]offers.Location, error) {
	return s.locations.ListLocations(ctx)
}

// CreateLocation stores a location. Coordinates are optional but must come
// as a valid pair.
func (s *Service) CreateLocation(ctx context.Context, loc offers.Location) (offers.Location, error) {
	if (loc.Latitude == nil) != (loc.Longitude == nil) {
		return offers.Location{}, fmt.Errorf("latitude and longitude must be set together: %w", types.ErrInvalidLocation)
	}
	if loc.Latitude != nil {
		p := geo.Point{Latitude: *loc.Latitude, Longitude: *loc.Longitude}
		if !p.Valid() {
			return offers.Location{}, fmt.Errorf("coordinates %s: %w", p, types.ErrInvalidLocation)
		}
	}
	if err := s.locations.CreateLocation(ctx, &loc); err != nil {
		return offers.Location{}, err
	}
	return loc, nil
}
