package middleware

import (
	"strings"

	"jabatata-pos/pkg/token"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin validates the admin session token and marks the request as
// unlocked. Failures are a bare 401: the gate never explains itself.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}

		claims, err := token.ValidateToken(parts[1])
		if err != nil || !claims.Admin {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}

		c.Locals("admin", true)
		return c.Next()
	}
}
