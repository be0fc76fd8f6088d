package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
	"github.com/feedbackqr/feedbackqr/app/repository"
	"github.com/feedbackqr/feedbackqr/internal/pkg/env"
	"github.com/feedbackqr/feedbackqr/internal/pkg/security"
	"github.com/feedbackqr/feedbackqr/internal/pkg/usercontext"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	CompanyName string `json:"company_name" validate:"required,min=2,max=150"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var validate = validator.New()

// HandleRegister creates a tenant account and logs it in immediately.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Email, password (min 8 chars) and company name are required")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := userRepo.GetByEmail(req.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "An account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("register: email lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Registration failed")
	}

	user, err := models.CreateUser(req.Email, req.Password, req.CompanyName)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid registration data")
	}
	if err := userRepo.Create(user); err != nil {
		log.Printf("register: create user failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Registration failed")
	}

	if err := issueAuthCookie(c, user); err != nil {
		log.Printf("register: token generation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(accountResponse(user))
}

// HandleLogin authenticates a tenant and sets the auth token cookie.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Email and password are required")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
		}
		log.Printf("login: email lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}
	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
	}

	if err := issueAuthCookie(c, user); err != nil {
		log.Printf("login: token generation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}

	return c.JSON(accountResponse(user))
}

// HandleLogout clears the auth token cookie.
func HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     security.AuthCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{"success": true})
}

// HandleMe returns the account behind the current auth token.
func HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Account no longer exists")
		}
		log.Printf("me: user lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load account")
	}

	return c.JSON(accountResponse(user))
}

type changePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free pro enterprise"`
}

// HandleChangePlan switches the subscription plan. The QR limit follows the
// plan; existing QR codes above a lowered limit stay, only creation is capped.
func HandleChangePlan(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	var req changePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "plan must be one of: free, pro, enterprise")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		log.Printf("plan change: user lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to change plan")
	}

	user.SetPlan(req.Plan)
	if err := userRepo.Update(user); err != nil {
		log.Printf("plan change failed for user %d: %v", user.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to change plan")
	}

	// The plan travels in the token claims, so a fresh cookie is needed
	if err := issueAuthCookie(c, user); err != nil {
		log.Printf("plan change: token refresh failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to change plan")
	}

	return c.JSON(accountResponse(user))
}

func issueAuthCookie(c *fiber.Ctx, user *models.User) error {
	token, err := security.GenerateAuthToken(user.ID, user.Email, user.CompanyName, user.Plan, env.GetEnv("JWT_SECRET", ""))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     security.AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(security.AuthTokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return nil
}

func accountResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":           user.ID,
		"email":        user.Email,
		"company_name": user.CompanyName,
		"plan":         user.Plan,
		"qr_limit":     user.QRLimit,
		"created_at":   user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
