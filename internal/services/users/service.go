package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	userTypes "github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/princekumarofficial/autohouse-service/internal/utils/jwt"
	"github.com/princekumarofficial/autohouse-service/internal/utils/password"
)

type Service struct {
	store     storage.Users
	jwtSecret string
	jwtTTL    time.Duration
}

func NewService(store storage.Users, jwtSecret string, jwtTTL time.Duration) *Service {
	return &Service{store: store, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

// Register creates an enabled account with role and every role below it.
// Usernames are compared case-insensitively.
func (s *Service) Register(ctx context.Context, username, plain string, role userTypes.Role) (userTypes.User, error) {
	username = strings.TrimSpace(username)
	exists, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		return userTypes.User{}, err
	}
	if exists {
		return userTypes.User{}, fmt.Errorf("user %s: %w", username, types.ErrAlreadyExists)
	}

	hashed, err := password.HashPassword(plain)
	if err != nil {
		return userTypes.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := userTypes.User{
		Username: username,
		Password: hashed,
		Enabled:  true,
		Roles:    userTypes.InheritedRoles(role),
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		return userTypes.User{}, err
	}
	slog.Info("User created", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Login checks the credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, plain string) (string, userTypes.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, types.ErrNotFound) {
		return "", userTypes.User{}, types.ErrInvalidCredentials
	}
	if err != nil {
		return "", userTypes.User{}, err
	}
	if !user.Enabled || !password.CheckPasswordHash(plain, user.Password) {
		return "", userTypes.User{}, types.ErrInvalidCredentials
	}

	token, err := jwt.CreateToken(user.ID, user.Roles, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", userTypes.User{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

func (s *Service) Get(ctx context.Context, id string) (userTypes.User, error) {
	return s.store.GetUserByID(ctx, id)
}
