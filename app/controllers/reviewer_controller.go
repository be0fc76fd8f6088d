package controllers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
	"github.com/feedbackqr/feedbackqr/app/repository"
	"github.com/feedbackqr/feedbackqr/internal/pkg/usercontext"
	"github.com/feedbackqr/feedbackqr/internal/pkg/utils"
)

type createReviewerRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// HandleListReviewers returns the global reviewer directory.
func HandleListReviewers(c *fiber.Ctx) error {
	badge := c.Query("badge")
	sortBy := c.Query("sortBy")
	limit := queryLimit(c, 20, 100)
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}

	reviewerRepo := repository.GetGlobalFactory().GetReviewerRepository()
	reviewers, err := reviewerRepo.List(badge, sortBy, limit, offset)
	if err != nil {
		log.Printf("reviewer list failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load reviewers")
	}
	total, err := reviewerRepo.Count()
	if err != nil {
		log.Printf("reviewer count failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load reviewers")
	}

	return c.JSON(fiber.Map{
		"reviewers": reviewers,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// HandleCreateReviewer lazily registers a reviewer identity. Submissions with
// a known email return the existing profile instead of failing.
func HandleCreateReviewer(c *fiber.Ctx) error {
	var req createReviewerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "display_name is required (max 100 chars)")
	}

	reviewerRepo := repository.GetGlobalFactory().GetReviewerRepository()

	if req.Email != "" {
		existing, err := reviewerRepo.GetByEmail(req.Email)
		if err == nil {
			return c.JSON(existing)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("reviewer create: email lookup failed: %v", err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create reviewer")
		}
	}

	reviewer := &models.Reviewer{
		DisplayName: req.DisplayName,
		AvatarURL:   utils.GetInitialsAvatarURL(req.DisplayName),
		Badge:       models.BADGE_NEW,
	}
	if req.Email != "" {
		reviewer.Email = &req.Email
	}
	if err := reviewerRepo.Create(reviewer); err != nil {
		log.Printf("reviewer create failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create reviewer")
	}

	return c.Status(fiber.StatusCreated).JSON(reviewer)
}

// HandleReviewerRankings returns the leaderboard of reviewers who reviewed
// this tenant's QR codes.
func HandleReviewerRankings(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	reviewerRepo := repository.GetGlobalFactory().GetReviewerRepository()
	rankings, err := reviewerRepo.RankingsByUser(userCtx.UserID, c.Query("badge"), c.Query("sortBy"), 50)
	if err != nil {
		log.Printf("rankings failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load rankings")
	}

	return c.JSON(fiber.Map{"rankings": rankings, "count": len(rankings)})
}
