package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
	"github.com/fiesta-frutilla/festival_cms/internal/identity"
)

const bearerPrefix = "bearer "

// Policy controls how strictly tokens are checked.
type Policy struct {
	// RevalidateOnEveryRequest additionally requires the token subject to
	// still exist in the store.
	RevalidateOnEveryRequest bool
	StoreTimeout             time.Duration
}

// Authorizer validates bearer tokens on inbound requests. It holds no
// per-request state.
type Authorizer struct {
	tokens *Tokens
	users  identity.Repository
	policy Policy
}

func NewAuthorizer(tokens *Tokens, users identity.Repository, policy Policy) *Authorizer {
	return &Authorizer{tokens: tokens, users: users, policy: policy}
}

// Authorize validates the raw Authorization header value.
func (a *Authorizer) Authorize(ctx context.Context, header string) (Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return Identity{}, common.ErrUnauthenticated
	}
	id, err := a.tokens.Parse(token)
	if err != nil {
		return Identity{}, err
	}
	if a.policy.RevalidateOnEveryRequest {
		if _, err := a.Lookup(ctx, id); err != nil {
			return Identity{}, err
		}
	}
	return id, nil
}

// Lookup loads the credential record behind id. A missing record means the
// token no longer refers to a user and wraps common.ErrInvalidToken.
func (a *Authorizer) Lookup(ctx context.Context, id Identity) (identity.User, error) {
	if a.users == nil {
		return identity.User{}, fmt.Errorf("%w: no user store configured", common.ErrStoreUnavailable)
	}
	if a.policy.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.policy.StoreTimeout)
		defer cancel()
	}
	user, err := a.users.FindByID(ctx, id.ID)
	if errors.Is(err, common.ErrNotFound) {
		return identity.User{}, fmt.Errorf("%w: user no longer exists", common.ErrInvalidToken)
	}
	if err != nil {
		return identity.User{}, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return user, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
