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
)

type qrCodeRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=150"`
	Location *string `json:"location" validate:"omitempty,max=200"`
}

// HandleListQRCodes returns the tenant's QR codes with lifetime aggregates.
func HandleListQRCodes(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	qrRepo := repository.GetGlobalFactory().GetQRCodeRepository()
	items, err := qrRepo.ListByUser(userCtx.UserID)
	if err != nil {
		log.Printf("qr list failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load QR codes")
	}

	return c.JSON(fiber.Map{"qr_codes": items, "count": len(items)})
}

// HandleCreateQRCode creates a QR code, enforcing the tenant's plan limit.
func HandleCreateQRCode(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req qrCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Name is required (max 150 chars)")
	}

	factory := repository.GetGlobalFactory()
	qrRepo := factory.GetQRCodeRepository()

	user, err := factory.GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		log.Printf("qr create: user lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create QR code")
	}
	count, err := qrRepo.CountByUser(userCtx.UserID)
	if err != nil {
		log.Printf("qr create: count failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create QR code")
	}
	if count >= int64(user.QRLimit) {
		return jsonError(c, fiber.StatusForbidden, "qr_limit_reached",
			"Your "+user.Plan+" plan allows "+strconv.Itoa(user.QRLimit)+" QR codes")
	}

	qr := &models.QRCode{
		UserID:   userCtx.UserID,
		Name:     req.Name,
		Location: req.Location,
	}
	if err := qrRepo.Create(qr); err != nil {
		log.Printf("qr create failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create QR code")
	}

	// Seed the performance snapshot so the tier shows up before any feedback
	if err := factory.GetPerformanceRepository().EnsureForQR(qr.ID); err != nil {
		log.Printf("qr create: performance seed failed for qr %d: %v", qr.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(qr)
}

// HandleGetQRCode returns one QR code with aggregates, owner-scoped.
func HandleGetQRCode(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	qrID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid QR code id")
	}

	qrRepo := repository.GetGlobalFactory().GetQRCodeRepository()
	qr, err := qrRepo.GetWithStats(qrID, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		}
		log.Printf("qr get failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load QR code")
	}

	perf, err := repository.GetGlobalFactory().GetPerformanceRepository().GetByQR(qrID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("qr get: performance lookup failed: %v", err)
	}

	resp := fiber.Map{"qr_code": qr}
	if perf != nil {
		resp["performance"] = perf
	}
	return c.JSON(resp)
}

// HandleUpdateQRCode updates name and location, owner-scoped.
func HandleUpdateQRCode(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	qrID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid QR code id")
	}

	var req qrCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Name is required (max 150 chars)")
	}

	qrRepo := repository.GetGlobalFactory().GetQRCodeRepository()
	qr, err := qrRepo.GetByIDForUser(qrID, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		}
		log.Printf("qr update: lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update QR code")
	}

	qr.Name = req.Name
	qr.Location = req.Location
	if err := qrRepo.Update(qr); err != nil {
		log.Printf("qr update failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update QR code")
	}

	return c.JSON(qr)
}

// HandleDeleteQRCode removes a QR code and its feedback, owner-scoped.
func HandleDeleteQRCode(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	qrID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid QR code id")
	}

	qrRepo := repository.GetGlobalFactory().GetQRCodeRepository()
	if _, err := qrRepo.GetByIDForUser(qrID, userCtx.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		}
		log.Printf("qr delete: lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete QR code")
	}
	if err := qrRepo.Delete(qrID); err != nil {
		log.Printf("qr delete failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete QR code")
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleShareQRCode counts one share of the public wall link.
func HandleShareQRCode(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	qrID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid QR code id")
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetQRCodeRepository().GetByIDForUser(qrID, userCtx.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "QR code not found")
		}
		log.Printf("qr share: lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to track share")
	}

	perfRepo := factory.GetPerformanceRepository()
	if err := perfRepo.EnsureForQR(qrID); err != nil {
		log.Printf("qr share: performance seed failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to track share")
	}
	if err := perfRepo.IncrementShareCount(qrID); err != nil {
		log.Printf("qr share: increment failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to track share")
	}

	perf, err := perfRepo.GetByQR(qrID)
	if err != nil {
		log.Printf("qr share: reload failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to track share")
	}

	return c.JSON(fiber.Map{"success": true, "share_count": perf.ShareCount})
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
