package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fiesta-frutilla/festival_cms/internal/identity"
	"github.com/fiesta-frutilla/festival_cms/internal/middleware"
	"github.com/fiesta-frutilla/festival_cms/internal/siteconfig"
)

// RegisterConfigRoutes wires the site configuration endpoints.
func RegisterConfigRoutes(r fiber.Router, h *siteconfig.Handler, jwtmw fiber.Handler) {
	r.Get("/config", h.Get)
	r.Put("/config", jwtmw, middleware.RequireRole(identity.RoleAdmin), h.Update)
}
