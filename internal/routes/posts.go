package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fiesta-frutilla/festival_cms/internal/identity"
	"github.com/fiesta-frutilla/festival_cms/internal/middleware"
	"github.com/fiesta-frutilla/festival_cms/internal/posts"
)

// RegisterPostRoutes wires blog endpoints. Reads are public, writes need a
// token and deletion needs the admin role.
func RegisterPostRoutes(r fiber.Router, h *posts.Handler, jwtmw, idempotency fiber.Handler) {
	group := r.Group("/posts")
	group.Get("/", h.List)
	group.Get("/:idOrSlug", h.Get)
	group.Post("/", jwtmw, idempotency, h.Create)
	group.Put("/:id", jwtmw, h.Update)
	group.Delete("/:id", jwtmw, middleware.RequireRole(identity.RoleAdmin), h.Delete)
}
