package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
)

const authCookie = "auth"

// AuthHandler implements the shared-secret cookie gate. Every request to
// the ingestion and listing endpoints must carry the cookie set by a
// successful login.
type AuthHandler struct {
	password     string
	secureCookie bool
}

// NewAuthHandler creates the gate around the configured shared password.
func NewAuthHandler(password string, secureCookie bool) *AuthHandler {
	return &AuthHandler{password: password, secureCookie: secureCookie}
}

type loginRequest struct {
	Password string `json:"password"`
}

// HandleLogin checks the submitted password and sets the auth cookie for
// a week.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid password",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     authCookie,
		Value:    "true",
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})

	return c.JSON(fiber.Map{"success": true})
}

// HandleLogout expires the auth cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     authCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(-time.Hour),
	})

	return c.JSON(fiber.Map{"success": true})
}

// Require rejects requests that do not carry a valid auth cookie.
func (h *AuthHandler) Require(c *fiber.Ctx) error {
	if c.Cookies(authCookie) != "true" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	return c.Next()
}
