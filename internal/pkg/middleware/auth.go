package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feedbackqr/feedbackqr/internal/pkg/usercontext"
)

// RequireAPIAuth ensures an authenticated tenant for API routes and returns
// JSON 401 instead of a redirect.
func RequireAPIAuth(c *fiber.Ctx) error {
	v := c.Locals(usercontext.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}
