package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/fiesta-frutilla/festival_cms/internal/auth"
	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

const identityLocalsKey = "identity"

type identityCtxKey struct{}

// JWTAuth validates the bearer token on every request and attaches the
// decoded Identity to the request locals and user context.
func JWTAuth(authz *auth.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := authz.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(identityLocalsKey, id)
		c.SetUserContext(context.WithValue(c.UserContext(), identityCtxKey{}, id))
		return c.Next()
	}
}

// RequireRole rejects requests whose identity does not carry role. It must
// run after JWTAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return common.ErrUnauthenticated
		}
		if id.Role != role {
			return common.ErrForbidden
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity attached by JWTAuth.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(identityLocalsKey).(auth.Identity)
	return id, ok
}

// IdentityFromContext returns the identity attached by JWTAuth to ctx.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(auth.Identity)
	return id, ok
}
