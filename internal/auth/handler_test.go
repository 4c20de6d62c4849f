package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
	"github.com/fiesta-frutilla/festival_cms/internal/logging"
)

func newHandlerApp(f fixture) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: common.ErrorHandler(logging.Discard())})
	h := NewHandler(f.svc, f.authz)
	app.Post("/login", h.Login)
	app.Get("/verify", h.Verify)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, authz string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if authz != "" {
		req.Header.Set(fiber.HeaderAuthorization, authz)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestLoginHandler(t *testing.T) {
	f := newFixture(t, Policy{})
	app := newHandlerApp(f)

	status, body := doJSON(t, app, http.MethodPost, "/login", `{"email":"a@x.com","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	require.Equal(t, "admin", user["role"])
	require.Equal(t, "a@x.com", user["email"])
	require.NotContains(t, user, "password")
	require.NotContains(t, user, "passwordHash")
	require.NotContains(t, body, "success")

	status, body = doJSON(t, app, http.MethodPost, "/login", `{"email":"a@x.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid credentials", body["error"])

	status, body = doJSON(t, app, http.MethodPost, "/login", `{"email":"nouser@x.com","password":"x"}`, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid credentials", body["error"])

	status, _ = doJSON(t, app, http.MethodPost, "/login", `{"email":"a@x.com"}`, "")
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/login", `{not json`, "")
	require.Equal(t, http.StatusBadRequest, status)
}

func TestVerifyHandler(t *testing.T) {
	f := newFixture(t, Policy{})
	app := newHandlerApp(f)

	signed, _, err := f.tokens.Issue(Identity{ID: f.admin.ID, Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)

	status, body := doJSON(t, app, http.MethodGet, "/verify", "", "Bearer "+signed)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["valid"])

	status, body = doJSON(t, app, http.MethodGet, "/verify", "", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "authorization required", body["error"])

	status, body = doJSON(t, app, http.MethodGet, "/verify", "", "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid token", body["error"])

	ghost, _, err := f.tokens.Issue(Identity{ID: "gone", Email: "ghost@x.com", Role: "user"})
	require.NoError(t, err)
	status, _ = doJSON(t, app, http.MethodGet, "/verify", "", "Bearer "+ghost)
	require.Equal(t, http.StatusUnauthorized, status)
}
