package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbackqr/feedbackqr/internal/pkg/security"
	"github.com/feedbackqr/feedbackqr/internal/pkg/usercontext"
)

func contextApp(t *testing.T) (*fiber.App, *usercontext.UserContext) {
	t.Helper()

	var captured usercontext.UserContext
	app := fiber.New()
	app.Use(UserContextMiddleware)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		captured = usercontext.GetUserContext(c)
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/private", RequireAPIAuth, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, &captured
}

func TestUserContextMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := security.GenerateAuthToken(42, "owner@cafe.example", "Cafe Aroma", "pro", "test-secret")
	require.NoError(t, err)

	app, captured := contextApp(t)
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Cookie", security.AuthCookieName+"="+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.True(t, captured.IsLoggedIn)
	assert.Equal(t, uint(42), captured.UserID)
	assert.Equal(t, "owner@cafe.example", captured.Email)
	assert.Equal(t, "Cafe Aroma", captured.CompanyName)
	assert.Equal(t, "pro", captured.Plan)
}

func TestUserContextMiddleware_MissingOrBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app, captured := contextApp(t)

	// no cookie
	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, captured.IsLoggedIn)

	// tampered token
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Cookie", security.AuthCookieName+"=not.a.token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, captured.IsLoggedIn)
}

func TestRequireAPIAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app, _ := contextApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := security.GenerateAuthToken(7, "a@b.example", "B", "free", "test-secret")
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Cookie", security.AuthCookieName+"="+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
