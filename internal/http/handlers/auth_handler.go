package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "swapflow/internal/log"
	"swapflow/internal/services"
	"swapflow/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "invalid email")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "invalid name")
	}
	if !validate.Password(req.Password) {
		return badRequest(c, "password must be 8-72 characters")
	}

	u, token, err := h.Auth.Register(email, name, req.Password)
	if err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"email": email})
		return fail(c, err)
	}
	setSessionCookie(c, token)
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.UserID})
	return c.JSON(fiber.Map{"user": u, "session_token": token})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	u, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid email or password"})
	}
	setSessionCookie(c, token)
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.UserID})
	return c.JSON(fiber.Map{"user": u, "session_token": token})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tok := sessionToken(c); tok != "" {
		_ = h.Auth.Logout(tok)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
