package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	statusConnected    = "connected"
	statusDisconnected = "disconnected"
	statusDisabled     = "disabled"
)

// RegisterHealthRoutes adds the health endpoint. Failures are logged; the
// response only reports component state.
func RegisterHealthRoutes(r fiber.Router, d Deps) {
	r.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		dbStatus := statusConnected
		var dbErr error
		switch {
		case d.Mongo != nil:
			dbErr = d.Mongo.Client().Ping(ctx, readpref.Primary())
		case d.DB != nil:
			dbErr = d.DB.Ping(ctx)
		}
		if dbErr != nil {
			dbStatus = statusDisconnected
		}

		cacheStatus := statusDisabled
		var cacheErr error
		if d.Cache != nil {
			cacheStatus = statusConnected
			if cacheErr = d.Cache.Ping(ctx).Err(); cacheErr != nil {
				cacheStatus = statusDisconnected
			}
		}

		status, label := http.StatusOK, "OK"
		if dbErr != nil || cacheErr != nil {
			status, label = http.StatusServiceUnavailable, "ERROR"
			if d.Logger != nil {
				d.Logger.Error("health check failed", "database_error", dbErr, "cache_error", cacheErr)
			}
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    label,
			"database":  dbStatus,
			"cache":     cacheStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
