package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Role is the closed set of user roles. Raw strings from the database or a
// token must pass through ParseRole before any privilege decision.
type Role string

const (
	RoleClient   Role = "client"
	RoleSubAdmin Role = "subAdmin"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes a stored role string. Unknown values map to client,
// the least privileged role.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "subadmin":
		return RoleSubAdmin
	default:
		return RoleClient
	}
}

// HasAdminPrivileges is the single privilege predicate: admins and church
// elders (subAdmin) may manage content and attempt histories.
func HasAdminPrivileges(r Role) bool {
	return r == RoleAdmin || r == RoleSubAdmin
}

// RequireAdmin guards a route group behind HasAdminPrivileges. It expects
// JWTMiddleware to have stored the token role already.
func RequireAdmin(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || !HasAdminPrivileges(ParseRole(role)) {
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
	return c.Next()
}
