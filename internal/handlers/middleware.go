package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumewise/resume-analyzer/internal/services"
)

const (
	SessionCookie = "session"
	usernameKey   = "username"
)

// RequireAuth rejects requests without a valid bearer token or session cookie.
func RequireAuth(auth services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := auth.ParseToken(tokenFromRequest(c))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "authentication required",
				"redirect": signInRedirect(c),
			})
		}

		c.Locals(usernameKey, username)
		return c.Next()
	}
}

func tokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(SessionCookie)
}

// signInRedirect maps an API path back to the page the caller was viewing.
func signInRedirect(c *fiber.Ctx) string {
	next := "/"
	if id := c.Params("id"); id != "" && strings.HasPrefix(c.Path(), "/api/v1/resume/") {
		next = "/resume/" + id
	}
	return "/auth?next=" + next
}

func currentUser(c *fiber.Ctx) string {
	username, _ := c.Locals(usernameKey).(string)
	return username
}
