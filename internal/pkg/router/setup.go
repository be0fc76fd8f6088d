package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/feedbackqr/feedbackqr/internal/pkg/middleware"
)

// Router installs a set of routes on the fiber app.
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App) {
	// UserContext middleware must run before any route so guards and
	// controllers can rely on the context being set.
	app.Use(middleware.UserContextMiddleware)

	setup(app, NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
