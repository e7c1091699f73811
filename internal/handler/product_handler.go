package handler

import (
	"context"
	"errors"

	"jabatata-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.MenuService
}

func NewProductHandler(s service.MenuService) *ProductHandler {
	return &ProductHandler{service: s}
}

// adminContext lifts the middleware's unlock flag into the request context.
func adminContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if admin, _ := c.Locals("admin").(bool); admin {
		ctx = service.WithAdmin(ctx)
	}
	return ctx
}

// GetProducts returns the combined catalog: built-ins plus custom entries.
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	return c.JSON(h.service.Catalog())
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.AddProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.AddProduct(adminContext(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.RemoveProduct(adminContext(c), id); err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Product removed"})
}
