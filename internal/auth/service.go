package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
	"github.com/fiesta-frutilla/festival_cms/internal/identity"
)

// ServiceConfig tunes the credential verifier.
type ServiceConfig struct {
	StoreTimeout time.Duration
	BcryptCost   int
}

// Service verifies login submissions and issues access tokens.
type Service struct {
	users   identity.Repository
	tokens  *Tokens
	timeout time.Duration
	cost    int
	logger  *slog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string              `json:"token"`
	User  identity.PublicUser `json:"user"`
}

func NewService(users identity.Repository, tokens *Tokens, cfg ServiceConfig, logger *slog.Logger) *Service {
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, tokens: tokens, timeout: cfg.StoreTimeout, cost: cfg.BcryptCost, logger: logger}
}

// Authenticate checks email and password against the stored credential record
// and issues a token on success. Unknown email and wrong password both yield
// common.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", common.ErrInvalidRequest)
	}

	user, err := s.lookup(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		// Keep the timing of unknown emails in line with wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.logger.Debug("login rejected: unknown email", slog.String("email", email))
		return LoginResult{}, common.ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("login lookup failed", slog.String("email", email), slog.Any("error", err))
		return LoginResult{}, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		s.logger.Debug("login rejected: password mismatch", slog.String("user_id", user.ID))
		return LoginResult{}, common.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(Identity{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.Info("login succeeded", slog.String("user_id", user.ID), slog.String("role", user.Role))
	return LoginResult{Token: token, User: user.Public()}, nil
}

func (s *Service) lookup(ctx context.Context, email string) (identity.User, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.users.FindByEmail(ctx, email)
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), s.cost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
