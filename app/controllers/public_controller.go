package controllers

import (
	"errors"
	"log"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
	"github.com/feedbackqr/feedbackqr/app/repository"
	"github.com/feedbackqr/feedbackqr/internal/pkg/statistics"
)

// HandlePublicWall serves the shareable feedback wall for a QR code.
// No auth: the slug is the capability.
func HandlePublicWall(c *fiber.Ctx) error {
	slug := c.Params("slug")
	withBadges := c.Query("badges", "true") != "false"

	factory := repository.GetGlobalFactory()
	qr, err := factory.GetQRCodeRepository().GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		}
		log.Printf("public wall: slug lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feedback wall")
	}

	owner, err := factory.GetUserRepository().GetByID(qr.UserID)
	if err != nil {
		log.Printf("public wall: owner lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feedback wall")
	}

	stats, err := factory.GetQRCodeRepository().GetWithStats(qr.ID, qr.UserID)
	if err != nil {
		log.Printf("public wall: stats failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feedback wall")
	}

	level := models.LEVEL_BRONZE
	var satisfaction float64
	if perf, err := factory.GetPerformanceRepository().GetByQR(qr.ID); err == nil {
		level = perf.Level
		satisfaction = perf.SatisfactionRate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("public wall: performance lookup failed: %v", err)
	}

	feedbacks, err := factory.GetFeedbackRepository().PublicWallByQR(qr.ID, 10)
	if err != nil {
		log.Printf("public wall: feedback query failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feedback wall")
	}
	if !withBadges {
		for i := range feedbacks {
			feedbacks[i].ReviewerBadge = nil
			feedbacks[i].ReviewerReviews = nil
			feedbacks[i].ReviewerScore = nil
		}
	}

	distribution, err := factory.GetFeedbackRepository().DistributionByQR(qr.ID)
	if err != nil {
		log.Printf("public wall: distribution query failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feedback wall")
	}

	return c.JSON(fiber.Map{
		"qr": fiber.Map{
			"name":              qr.Name,
			"location":          qr.Location,
			"company_name":      owner.CompanyName,
			"avg_rating":        math.Round(stats.AvgRating*100) / 100,
			"total_feedbacks":   stats.FeedbackCount,
			"level":             level,
			"satisfaction_rate": satisfaction,
		},
		"feedbacks":    feedbacks,
		"distribution": distribution,
	})
}

// HandlePlatformStats serves the public landing-page counters.
func HandlePlatformStats(c *fiber.Ctx) error {
	statistics.UpdateCacheIfNeeded()

	return c.JSON(statistics.GetPlatformStats())
}
