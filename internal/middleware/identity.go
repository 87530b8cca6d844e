package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/siakad-go-api/internal/utils"
)

// CurrentUserID returns the authenticated teacher ID set by JWTProtected.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// CurrentUserRole returns the normalised role claim of the authenticated user.
func CurrentUserRole(c *fiber.Ctx) string {
	return normalizeRoleValue(c.Locals(LocalUserRole))
}

// RequireUser rejects requests that did not pass through JWTProtected.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUserID(c); !ok {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}
		return c.Next()
	}
}
