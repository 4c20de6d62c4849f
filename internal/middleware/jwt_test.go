package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiesta-frutilla/festival_cms/internal/auth"
	"github.com/fiesta-frutilla/festival_cms/internal/common"
	"github.com/fiesta-frutilla/festival_cms/internal/identity"
	"github.com/fiesta-frutilla/festival_cms/internal/logging"
)

type authFixture struct {
	app    *fiber.App
	tokens *auth.Tokens
	admin  identity.User
	editor identity.User
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	users := identity.NewMemoryRepository()
	ids := identity.NewService(users, bcrypt.MinCost, logging.Discard())
	admin, err := ids.Register(context.Background(), identity.Registration{Email: "a@x.com", Password: "secret", Role: identity.RoleAdmin})
	require.NoError(t, err)
	editor, err := ids.Register(context.Background(), identity.Registration{Email: "e@x.com", Password: "secret", Role: identity.RoleUser})
	require.NoError(t, err)

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	authz := auth.NewAuthorizer(tokens, users, auth.Policy{})

	app := fiber.New(fiber.Config{ErrorHandler: common.ErrorHandler(logging.Discard())})
	protected := app.Group("/api", JWTAuth(authz))
	protected.Get("/me", func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		ctxID, ok := IdentityFromContext(c.UserContext())
		if !ok || ctxID != id {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.JSON(id)
	})
	protected.Get("/admin", RequireRole(identity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	return authFixture{app: app, tokens: tokens, admin: admin, editor: editor}
}

func (f authFixture) bearer(t *testing.T, u identity.User) string {
	t.Helper()
	signed, _, err := f.tokens.Issue(auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role})
	require.NoError(t, err)
	return "Bearer " + signed
}

func (f authFixture) get(t *testing.T, path, authz string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set(fiber.HeaderAuthorization, authz)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestJWTAuthAttachesIdentity(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.get(t, "/api/me", f.bearer(t, f.admin))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var id auth.Identity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&id))
	require.Equal(t, auth.Identity{ID: f.admin.ID, Email: "a@x.com", Role: "admin"}, id)
}

func TestJWTAuthRejects(t *testing.T) {
	f := newAuthFixture(t)

	cases := map[string]string{
		"missing":   "",
		"no prefix": "garbage",
		"garbage":   "Bearer garbage",
	}
	for name, header := range cases {
		resp := f.get(t, "/api/me", header)
		var body common.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
		require.NotEmpty(t, body.Error, name)
	}
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.get(t, "/api/admin", f.bearer(t, f.admin))
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.get(t, "/api/admin", f.bearer(t, f.editor))
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
