package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/feedbackqr/feedbackqr/app/repository"
	"github.com/feedbackqr/feedbackqr/internal/pkg/database"
	"github.com/feedbackqr/feedbackqr/internal/pkg/statistics"
	"github.com/feedbackqr/feedbackqr/internal/pkg/usercontext"
)

// Top-feedback categories accepted by the API.
var topCategories = map[string]bool{
	repository.TopCategoryBest:     true,
	repository.TopCategoryHelpful:  true,
	repository.TopCategoryRecent:   true,
	repository.TopCategoryDetailed: true,
	repository.TopCategoryCritical: true,
}

// HandleDashboard returns the tenant dashboard rollup.
func HandleDashboard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	data, err := statistics.BuildDashboard(database.GetDB(), userCtx.UserID)
	if err != nil {
		log.Printf("dashboard failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load dashboard")
	}

	return c.JSON(data)
}

// HandleAlerts returns urgent feedback across all of the tenant's QR codes.
func HandleAlerts(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	feedbackRepo := repository.GetGlobalFactory().GetFeedbackRepository()
	alerts, err := feedbackRepo.ListUrgentByUser(userCtx.UserID, 20)
	if err != nil {
		log.Printf("alerts failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load alerts")
	}

	return c.JSON(fiber.Map{"alerts": alerts, "count": len(alerts)})
}

// HandleTopFeedbacks returns curated feedback for one category plus an
// overview stats block.
func HandleTopFeedbacks(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	category := c.Query("category", repository.TopCategoryBest)
	if !topCategories[category] {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown category: "+category)
	}
	limit := queryLimit(c, 10, 50)

	feedbackRepo := repository.GetGlobalFactory().GetFeedbackRepository()
	items, err := feedbackRepo.TopByUser(userCtx.UserID, category, limit)
	if err != nil {
		log.Printf("top feedbacks failed for user %d category %s: %v", userCtx.UserID, category, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load top feedbacks")
	}

	overview, err := feedbackRepo.OverviewByUser(userCtx.UserID)
	if err != nil {
		log.Printf("top feedbacks overview failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load top feedbacks")
	}

	return c.JSON(fiber.Map{
		"category":  category,
		"feedbacks": items,
		"stats":     overview,
	})
}
