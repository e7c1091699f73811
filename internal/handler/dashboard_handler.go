package handler

import (
	"jabatata-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns today's totals and the monthly goal progress.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.service.Stats())
}

// GetRanking returns the monthly product ranking, best seller first.
func (h *DashboardHandler) GetRanking(c *fiber.Ctx) error {
	return c.JSON(h.service.Ranking())
}

func (h *DashboardHandler) GetGoal(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"goal": h.service.Stats().Goal})
}

type setGoalRequest struct {
	Goal float64 `json:"goal"`
}

func (h *DashboardHandler) SetGoal(c *fiber.Ctx) error {
	var req setGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.SetGoal(req.Goal); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update goal"})
	}

	return c.JSON(fiber.Map{"message": "Goal updated", "goal": req.Goal})
}
