// Package auth verifies credentials and issues the HS256 tokens that carry
// the caller's user id to the other services.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"github.com/amirasaad/eaglebank/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// dummyHash is compared against when the user does not exist, so that unknown
// emails take as long as wrong passwords.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
var ErrInvalidCredentials error = &domain.Error{Kind: domain.ErrUnauthorized, Message: "invalid email or password"}

// Service authenticates users.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := config.Jwt{}
	if deps.Config != nil && deps.Config.Auth != nil && deps.Config.Auth.Jwt != nil {
		cfg = *deps.Config.Auth.Jwt
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 24 * time.Hour
	}
	return &Service{uow: deps.Uow, cfg: cfg, logger: logger}
}

// Login checks the credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (token string, err error) {
	log := s.logger.With("context", "Login", "email", email)
	log.Debug("Login called")

	var u *user.User
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository: %w", err)
		}
		addr, err := user.NewEmail(user.NormalizeEmail(email))
		if err != nil {
			_ = utils.CheckPasswordHash(password, dummyHash)
			return ErrInvalidCredentials
		}
		u, err = repo.GetByEmail(ctx, addr)
		if errors.Is(err, domain.ErrNotFound) {
			_ = utils.CheckPasswordHash(password, dummyHash)
			return ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if !utils.CheckPasswordHash(password, string(u.PasswordHash)) {
			return ErrInvalidCredentials
		}
		return nil
	})
	if err != nil {
		log.Error("Login failed", "error", err)
		return "", err
	}

	token, err = s.GenerateToken(u)
	if err != nil {
		log.Error("Login failed", "error", err)
		return "", err
	}
	log.Info("Login successful", "user_id", u.ID)
	return token, nil
}

// GenerateToken signs a token for u.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	if s.cfg.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"email":   string(u.Email),
		"exp":     time.Now().Add(s.cfg.Expiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

// CurrentUserID extracts the user id from a verified token.
func (s *Service) CurrentUserID(token *jwt.Token) (user.ID, error) {
	if token == nil || !token.Valid {
		return user.ID{}, domain.Unauthorized("missing or invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return user.ID{}, domain.Unauthorized("unexpected token claims")
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return user.ID{}, domain.Unauthorized("token has no user id")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return user.ID{}, domain.Unauthorized("token has a malformed user id")
	}
	return user.ID(id), nil
}

// ParseToken verifies a signed token string and returns its user id.
func (s *Service) ParseToken(raw string) (user.ID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return user.ID{}, domain.Unauthorized("invalid token: %v", err)
	}
	return s.CurrentUserID(token)
}
