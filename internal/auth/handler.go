package auth

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

// Handler exposes login and token verification endpoints.
type Handler struct {
	svc   *Service
	authz *Authorizer
}

func NewHandler(svc *Service, authz *Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and returns {token, user}.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: malformed body", common.ErrInvalidRequest)
	}
	res, err := h.svc.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(res)
}

// Verify checks the bearer token and confirms its user still exists.
func (h *Handler) Verify(c *fiber.Ctx) error {
	id, err := h.authz.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	user, err := h.authz.Lookup(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"valid": true, "user": user.Public()})
}
