package handler

import (
	"jabatata-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// GetSales returns the whole history, newest first.
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	return c.JSON(h.service.ListSales())
}

func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var draft service.SaleDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.RecordSale(&draft, "")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if sale == nil {
		// Empty cart: silently ignored, nothing stored.
		return c.SendStatus(204)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

// UpdateSale replaces the sale with the given id. The history position is
// re-derived from the new timestamp, not preserved.
func (h *SaleHandler) UpdateSale(c *fiber.Ctx) error {
	id := c.Params("id")

	var draft service.SaleDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.RecordSale(&draft, id)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if sale == nil {
		return c.SendStatus(204)
	}

	return c.JSON(fiber.Map{"message": "Sale updated", "data": sale})
}
