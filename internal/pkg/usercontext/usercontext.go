package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the complete tenant context for a request
type UserContext struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Plan        string `json:"plan"`
	IsLoggedIn  bool   `json:"is_logged_in"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// SetUserContext stores the user context plus compatibility locals
func SetUserContext(c *fiber.Ctx, userCtx UserContext) {
	c.Locals(ContextKey, userCtx)
	c.Locals(KeyFromProtected, userCtx.IsLoggedIn)
	c.Locals(KeyUserID, userCtx.UserID)
	c.Locals(KeyEmail, userCtx.Email)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
