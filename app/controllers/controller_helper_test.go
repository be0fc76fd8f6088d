package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientIPApp(t *testing.T) (*fiber.App, *string) {
	t.Helper()

	var captured string
	app := fiber.New()
	app.Get("/ip", func(c *fiber.Ctx) error {
		captured = GetClientIP(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app, &captured
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "cloudflare header wins",
			headers: map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "10.0.0.1"},
			want:    "203.0.113.7",
		},
		{
			name:    "first forwarded entry is the client",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.1, 10.0.0.2"},
			want:    "198.51.100.4",
		},
		{
			name:    "x-real-ip fallback",
			headers: map[string]string{"X-Real-IP": "192.0.2.33"},
			want:    "192.0.2.33",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app, captured := clientIPApp(t)

			req := httptest.NewRequest("GET", "/ip", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.want, *captured)
		})
	}
}

func TestQueryLimit(t *testing.T) {
	var got int
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		got = queryLimit(c, 10, 50)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "missing uses default", url: "/items", want: 10},
		{name: "valid value passes through", url: "/items?limit=25", want: 25},
		{name: "clamped to max", url: "/items?limit=500", want: 50},
		{name: "zero uses default", url: "/items?limit=0", want: 10},
		{name: "garbage uses default", url: "/items?limit=abc", want: 10},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tc.url, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.want, got)
		})
	}
}
