package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feedbackqr/feedbackqr/internal/pkg/env"
	"github.com/feedbackqr/feedbackqr/internal/pkg/security"
	"github.com/feedbackqr/feedbackqr/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// It reads the auth token cookie and verifies it; requests without a valid
// token proceed as anonymous, route guards decide whether that is allowed.
func UserContextMiddleware(c *fiber.Ctx) error {
	token := c.Cookies(security.AuthCookieName)
	if token == "" {
		usercontext.SetUserContext(c, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	claims, err := security.VerifyAuthToken(token, env.GetEnv("JWT_SECRET", ""))
	if err != nil {
		// Expired or tampered token: treat as anonymous, do not error out
		usercontext.SetUserContext(c, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	usercontext.SetUserContext(c, usercontext.UserContext{
		UserID:      claims.UserID,
		Email:       claims.Email,
		CompanyName: claims.CompanyName,
		Plan:        claims.Plan,
		IsLoggedIn:  true,
	})

	return c.Next()
}
