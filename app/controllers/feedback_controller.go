package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
	"github.com/feedbackqr/feedbackqr/app/repository"
	"github.com/feedbackqr/feedbackqr/internal/pkg/database"
	"github.com/feedbackqr/feedbackqr/internal/pkg/hcaptcha"
	"github.com/feedbackqr/feedbackqr/internal/pkg/mail"
	"github.com/feedbackqr/feedbackqr/internal/pkg/pipeline"
	"github.com/feedbackqr/feedbackqr/internal/pkg/usercontext"
)

type submitFeedbackRequest struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	ReviewerName  string `json:"reviewer_name"`
	ReviewerEmail string `json:"reviewer_email"`
	CaptchaToken  string `json:"captcha_token"`
}

type helpfulVoteRequest struct {
	FeedbackID uint `json:"feedback_id" validate:"required"`
}

// HandleSubmitFeedback is the public feedback intake behind the QR code.
func HandleSubmitFeedback(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var req submitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if hcaptcha.Enabled() {
		if ok, err := hcaptcha.Verify(req.CaptchaToken); !ok {
			log.Printf("feedback submit: captcha rejected: %v", err)
			return jsonError(c, fiber.StatusBadRequest, "captcha_failed", "Captcha verification failed")
		}
	}

	p := pipeline.New(database.GetDB())
	feedbackID, err := p.Submit(slug, pipeline.SubmitInput{
		Rating:        req.Rating,
		Comment:       req.Comment,
		ReviewerName:  req.ReviewerName,
		ReviewerEmail: req.ReviewerEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrInvalidRating):
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Rating must be between 1 and 5")
		case errors.Is(err, pipeline.ErrCommentTooLong):
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Comment must be 500 characters or less")
		case errors.Is(err, pipeline.ErrQRNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		default:
			log.Printf("feedback submit failed for slug %s: %v", slug, err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save feedback")
		}
	}

	if models.IsUrgentRating(req.Rating) {
		go notifyOwnerOfUrgentFeedback(slug, req.Rating, req.Comment)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": feedbackID})
}

// notifyOwnerOfUrgentFeedback emails the tenant about a low rating. Runs
// outside the request, best-effort only.
func notifyOwnerOfUrgentFeedback(slug string, rating int, comment string) {
	factory := repository.GetGlobalFactory()
	qr, err := factory.GetQRCodeRepository().GetBySlug(slug)
	if err != nil {
		log.Printf("urgent alert: qr lookup failed for slug %s: %v", slug, err)
		return
	}
	owner, err := factory.GetUserRepository().GetByID(qr.UserID)
	if err != nil {
		log.Printf("urgent alert: owner lookup failed for qr %d: %v", qr.ID, err)
		return
	}
	if err := mail.SendUrgentFeedbackAlert(owner.Email, qr.Name, rating, comment); err != nil {
		log.Printf("urgent alert: send failed for qr %d: %v", qr.ID, err)
	}
}

// HandleGetSubmitInfo tells the feedback form which touch point it belongs to.
func HandleGetSubmitInfo(c *fiber.Ctx) error {
	slug := c.Params("slug")

	qrRepo := repository.GetGlobalFactory().GetQRCodeRepository()
	qr, err := qrRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		}
		log.Printf("submit info failed for slug %s: %v", slug, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load QR code")
	}

	return c.JSON(fiber.Map{
		"id":       qr.ID,
		"name":     qr.Name,
		"location": qr.Location,
	})
}

// HandleListFeedbacks returns feedback for one of the tenant's QR codes.
func HandleListFeedbacks(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	qrID, err := parseIDParam(c, "qrId")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid QR code id")
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetQRCodeRepository().GetByIDForUser(qrID, userCtx.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		}
		log.Printf("feedback list: qr lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feedback")
	}

	limit := queryLimit(c, 50, 200)
	items, err := factory.GetFeedbackRepository().ListByQR(qrID, limit)
	if err != nil {
		log.Printf("feedback list failed for qr %d: %v", qrID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feedback")
	}

	return c.JSON(fiber.Map{"feedbacks": items, "count": len(items)})
}

// HandleHelpfulVote marks a feedback as helpful, once per visitor.
func HandleHelpfulVote(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	qrID, err := parseIDParam(c, "qrId")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid QR code id")
	}

	var req helpfulVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "feedback_id is required")
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetQRCodeRepository().GetByIDForUser(qrID, userCtx.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		}
		log.Printf("helpful vote: qr lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to register vote")
	}

	voterKey := pipeline.VoterKeyFromIP(GetClientIP(c))
	if err := pipeline.RegisterHelpfulVote(database.GetDB(), req.FeedbackID, voterKey); err != nil {
		switch {
		case errors.Is(err, pipeline.ErrAlreadyVoted):
			return jsonError(c, fiber.StatusBadRequest, "already_voted", "You already marked this feedback as helpful")
		case errors.Is(err, pipeline.ErrFeedbackNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Feedback not found")
		default:
			log.Printf("helpful vote failed for feedback %d: %v", req.FeedbackID, err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to register vote")
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
