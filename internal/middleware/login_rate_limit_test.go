package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fiesta-frutilla/festival_cms/internal/logging"
)

func loginStatus(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestLoginRateLimitPerEmail(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Post("/login", LoginRateLimit(cache, 2, logging.Discard()), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		if got := loginStatus(t, app, `{"email":"a@x.com"}`); got != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, got)
		}
	}
	if got := loginStatus(t, app, `{"email":"a@x.com"}`); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", got)
	}
	if got := loginStatus(t, app, `{"email":"b@x.com"}`); got != http.StatusOK {
		t.Fatalf("other email should not be limited, got %d", got)
	}
	if ttl := mr.TTL(loginRateKeyPrefix + "a@x.com"); ttl <= 0 {
		t.Fatalf("expected counter to expire, ttl=%s", ttl)
	}
}

func TestLoginRateLimitFailsOpen(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimit(nil, 1, logging.Discard()), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		if got := loginStatus(t, app, `{"email":"a@x.com"}`); got != http.StatusOK {
			t.Fatalf("expected 200 without cache, got %d", got)
		}
	}
}
