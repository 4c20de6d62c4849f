package siteconfig

import (
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

// Handler exposes the configuration endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a configuration HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func render(doc Document) fiber.Map {
	out := fiber.Map{}
	maps.Copy(out, doc.Fields)
	if !doc.UpdatedAt.IsZero() {
		out[updatedAtField] = doc.UpdatedAt.Format(time.RFC3339Nano)
	}
	return out
}

// Get returns the configuration document, {} when never written.
func (h *Handler) Get(c *fiber.Ctx) error {
	doc, err := h.service.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(render(doc))
}

// Update merges the request body into the configuration.
func (h *Handler) Update(c *fiber.Ctx) error {
	var fields map[string]any
	if err := c.BodyParser(&fields); err != nil {
		return fmt.Errorf("%w: body must be a JSON object", common.ErrInvalidRequest)
	}
	doc, err := h.service.Update(c.UserContext(), fields)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "configuration updated",
		"config":  render(doc),
	})
}
