// middleware/user_context.go
package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware attaches a user identity to every request. There is
// no authentication: the X-User-ID header wins when present, otherwise the
// shared "default" identity is used, matching the permissive API contract.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			userID = "default"
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
