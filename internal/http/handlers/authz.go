package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"swapflow/internal/domain"
	applog "swapflow/internal/log"
	"swapflow/internal/services"
)

// sessionToken pulls the opaque token from the cookie or a Bearer header.
func sessionToken(c *fiber.Ctx) string {
	if tok := c.Cookies("session_token"); tok != "" {
		return tok
	}
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// authenticate resolves the caller, writing the rejection response itself.
// A nil user means the response is already rendered.
func authenticate(c *fiber.Ctx, auth *services.AuthService) (*domain.User, error) {
	tok := sessionToken(c)
	if tok == "" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Not authenticated"})
	}
	u, err := auth.CurrentUser(tok)
	if err != nil {
		if errors.Is(err, services.ErrSuspended) {
			applog.Security(c, "access.denied.suspended", map[string]any{"err": err.Error()})
			return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": err.Error()})
		}
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid session"})
	}
	c.Locals("user", u)
	c.Locals("user_id", u.UserID)
	return u, nil
}

// RequireUser rejects unauthenticated (or suspended) callers and stores the
// resolved user in Locals.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, res := authenticate(c, auth)
		if u == nil {
			return res
		}
		return c.Next()
	}
}

// RequireAdmin additionally enforces the ADMIN role.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, res := authenticate(c, auth)
		if u == nil {
			return res
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "Admin access required"})
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
