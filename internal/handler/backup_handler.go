package handler

import (
	"errors"
	"fmt"
	"time"

	"jabatata-pos/internal/model"
	"jabatata-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BackupHandler struct {
	service service.BackupService
}

func NewBackupHandler(s service.BackupService) *BackupHandler {
	return &BackupHandler{service: s}
}

// Export downloads the full state as a dated JSON document.
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	filename := fmt.Sprintf("jabatata_backup_%s.json", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.JSON(h.service.Export())
}

// Import restores state from an uploaded document. Fields absent from the
// document leave the corresponding live state untouched.
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	var doc model.BackupDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Import(&doc); err != nil {
		if errors.Is(err, service.ErrInvalidBackup) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to restore backup"})
	}

	return c.JSON(fiber.Map{"message": "Backup restored"})
}
