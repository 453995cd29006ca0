package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/rayan-crm-api/internal/utils"
)

// Roles carried in bearer token claims.
const (
	AuthRoleAny   = "any"
	AuthRoleAdmin = "admin"
	AuthRoleStaff = "staff"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth wraps a handler with authentication and role guards. Admins pass
// every staff guard; apollonyars authenticate with the staff role.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := normalizeRole(opts.Role)
	if role == "" {
		role = AuthRoleAny
	}

	requireUser := opts.RequireUser
	if !requireUser && role != AuthRoleAny {
		requireUser = true
	}

	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id")
		if requireUser && userID == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if role == AuthRoleAny {
			return handler(c)
		}

		currentRole := operatorRole(c)
		switch role {
		case AuthRoleStaff:
			if currentRole != AuthRoleStaff && currentRole != AuthRoleAdmin {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		default:
			if currentRole != role {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		}

		return handler(c)
	}
}
