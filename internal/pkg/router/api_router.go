package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/feedbackqr/feedbackqr/app/controllers"
	"github.com/feedbackqr/feedbackqr/internal/pkg/constants"
	"github.com/feedbackqr/feedbackqr/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group(constants.APIv1Route)

	// Public routes: the QR slug is the capability, no account needed.
	v1.Get("/stats", controllers.HandlePlatformStats)
	v1.Post("/feedback/submit/:slug", controllers.HandleSubmitFeedback)
	v1.Get("/feedback/submit/:slug", controllers.HandleGetSubmitInfo)
	v1.Get("/public/qr/:slug", controllers.HandlePublicWall)
	v1.Get("/reviewers", controllers.HandleListReviewers)
	v1.Post("/reviewers", controllers.HandleCreateReviewer)

	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", controllers.HandleLogout)
	auth.Get("/me", controllers.HandleMe)
	auth.Put("/plan", middleware.RequireAPIAuth, controllers.HandleChangePlan)

	// Tenant routes, JWT cookie required.
	qr := v1.Group("/qr-codes", middleware.RequireAPIAuth)
	qr.Get("/", controllers.HandleListQRCodes)
	qr.Post("/", controllers.HandleCreateQRCode)
	qr.Get("/:id", controllers.HandleGetQRCode)
	qr.Put("/:id", controllers.HandleUpdateQRCode)
	qr.Delete("/:id", controllers.HandleDeleteQRCode)
	qr.Post("/:id/share", controllers.HandleShareQRCode)

	feedbacks := v1.Group("/feedbacks", middleware.RequireAPIAuth)
	feedbacks.Get("/:qrId", controllers.HandleListFeedbacks)
	feedbacks.Post("/:qrId/helpful", controllers.HandleHelpfulVote)

	v1.Get("/dashboard", middleware.RequireAPIAuth, controllers.HandleDashboard)
	v1.Get("/alerts", middleware.RequireAPIAuth, controllers.HandleAlerts)
	v1.Get("/top-feedbacks", middleware.RequireAPIAuth, controllers.HandleTopFeedbacks)
	v1.Get("/rankings/reviewers", middleware.RequireAPIAuth, controllers.HandleReviewerRankings)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
