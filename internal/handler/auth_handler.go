package handler

import (
	"jabatata-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// UnlockRequest represents the admin unlock request body
type UnlockRequest struct {
	Passcode string `json:"passcode"`
}

// Unlock exchanges the admin passcode for a session token.
// POST /api/v1/auth/unlock
func (h *AuthHandler) Unlock(c *fiber.Ctx) error {
	var req UnlockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Passcode == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Passcode is required"})
	}

	tok, err := h.authService.Unlock(req.Passcode)
	if err != nil {
		// Wrong passcode and any other failure look the same.
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return c.JSON(fiber.Map{"token": tok})
}
