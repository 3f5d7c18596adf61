package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"doclib/internal/model"
	"doclib/internal/service"
)

// PrincipalLocalKey holds the authenticated model.Principal in fiber locals.
const PrincipalLocalKey = "principal"

// Authenticator resolves a bearer token to the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (model.Principal, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the principal for the rest of the request.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		p, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrAuth) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
			}
			return fiber.NewError(fiber.StatusServiceUnavailable, "authentication unavailable")
		}

		c.Locals(PrincipalLocalKey, p)
		return c.Next()
	}
}

// PrincipalFromCtx returns the principal stored by RequireAuth.
func PrincipalFromCtx(c *fiber.Ctx) (model.Principal, bool) {
	p, ok := c.Locals(PrincipalLocalKey).(model.Principal)
	return p, ok
}
