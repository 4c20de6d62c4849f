package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

const minPasswordLength = 6

// Service manages credential records.
type Service struct {
	repo   Repository
	cost   int
	logger *slog.Logger
}

// NewService creates a new identity service hashing with the given bcrypt cost.
func NewService(repo Repository, cost int, logger *slog.Logger) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost, logger: logger}
}

// Register hashes the password and stores a new user.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	if strings.TrimSpace(reg.Email) == "" {
		return User{}, fmt.Errorf("%w: email is required", common.ErrInvalidRequest)
	}
	if len(reg.Password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidRequest, minPasswordLength)
	}
	role := reg.Role
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return User{}, fmt.Errorf("%w: unknown role %q", common.ErrInvalidRequest, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, User{
		Email:        reg.Email,
		PasswordHash: hash,
		Name:         reg.Name,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
}

// EnsureAdmin creates the admin account when no user with that email exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	user, err := s.Register(ctx, Registration{Email: email, Password: password, Name: name, Role: RoleAdmin})
	if errors.Is(err, common.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("admin user created", slog.String("user_id", user.ID), slog.String("email", user.Email))
	}
	return nil
}
