package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/kaii_store/internal/hash"
	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/models"
	"github.com/Skotchmaster/kaii_store/internal/mykafka"
	"github.com/Skotchmaster/kaii_store/internal/repo"
	"github.com/Skotchmaster/kaii_store/internal/tokens"
	"github.com/Skotchmaster/kaii_store/internal/transport"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	// TokenTTL of zero issues tokens without an expiry.
	TokenTTL time.Duration
	Events   mykafka.Publisher
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 400, "reason", "email already used")
			return nil, fmt.Errorf("%w: email already used", ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "internal error", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, mykafka.Key(user.ID), mykafka.NewEvent(mykafka.UserRegistered, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	}))
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// Login answers ErrInvalidCredentials for unknown emails and wrong passwords alike.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := tokens.SignAccessToken(user.ID, user.Email, user.Role, s.JWTSecret, s.TokenTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return &transport.LoginResponse{
		Token: token,
		User:  transport.LoginUser{ID: user.ID, Name: user.Name, Role: user.Role},
	}, nil
}
