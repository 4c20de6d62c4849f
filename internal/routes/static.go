package routes

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// RegisterStaticRoutes serves the admin panel bundle from dir. Client-side
// routes under /admin fall back to admin.html.
func RegisterStaticRoutes(app *fiber.App, dir string) {
	app.Static("/", dir)
	app.Get("/admin*", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(dir, "admin.html"))
	})
}
