package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

func TestAuthorizeScenario(t *testing.T) {
	f := newFixture(t, Policy{})
	ctx := context.Background()

	res, err := f.svc.Authenticate(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	id, err := f.authz.Authorize(ctx, "Bearer "+res.Token)
	require.NoError(t, err)
	require.Equal(t, Identity{ID: f.admin.ID, Email: "a@x.com", Role: "admin"}, id)

	_, err = f.authz.Authorize(ctx, "Bearer garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = f.authz.Authorize(ctx, "")
	require.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthorizeHeaderFormats(t *testing.T) {
	f := newFixture(t, Policy{})
	signed, _, err := f.tokens.Issue(Identity{ID: f.admin.ID, Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)

	for _, h := range []string{"bearer " + signed, "BEARER " + signed, "Bearer   " + signed} {
		_, err := f.authz.Authorize(context.Background(), h)
		require.NoError(t, err, h)
	}
	for _, h := range []string{signed, "Basic dXNlcjpwYXNz", "Bearer", "Bearer ", "Token " + signed} {
		_, err := f.authz.Authorize(context.Background(), h)
		if !errors.Is(err, common.ErrUnauthenticated) {
			t.Fatalf("header %q: expected unauthenticated, got %v", h, err)
		}
	}
}

func TestAuthorizeExpiredToken(t *testing.T) {
	f := newFixture(t, Policy{})
	past := time.Now().Add(-48 * time.Hour)
	f.tokens.now = func() time.Time { return past }
	signed, _, err := f.tokens.Issue(Identity{ID: f.admin.ID, Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)
	f.tokens.now = time.Now

	_, err = f.authz.Authorize(context.Background(), "Bearer "+signed)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAuthorizeRevalidation(t *testing.T) {
	f := newFixture(t, Policy{RevalidateOnEveryRequest: true, StoreTimeout: time.Second})
	ctx := context.Background()

	signed, _, err := f.tokens.Issue(Identity{ID: f.admin.ID, Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)
	_, err = f.authz.Authorize(ctx, "Bearer "+signed)
	require.NoError(t, err)

	ghost, _, err := f.tokens.Issue(Identity{ID: "deleted-user", Email: "ghost@x.com", Role: "user"})
	require.NoError(t, err)
	_, err = f.authz.Authorize(ctx, "Bearer "+ghost)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	// Without revalidation the same token is accepted on signature alone.
	lax := NewAuthorizer(f.tokens, f.users, Policy{})
	_, err = lax.Authorize(ctx, "Bearer "+ghost)
	require.NoError(t, err)
}

func TestAuthorizeRevalidationStoreFailure(t *testing.T) {
	f := newFixture(t, Policy{})
	authz := NewAuthorizer(f.tokens, failingRepo{err: errors.New("socket closed")}, Policy{RevalidateOnEveryRequest: true})
	signed, _, err := f.tokens.Issue(Identity{ID: f.admin.ID})
	require.NoError(t, err)

	_, err = authz.Authorize(context.Background(), "Bearer "+signed)
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def.ghi")
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", tok)

	_, ok = BearerToken("abc.def.ghi")
	require.False(t, ok)
}
