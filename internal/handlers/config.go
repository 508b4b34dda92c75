package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tabhome/internal/services"
	"tabhome/internal/storage"
)

// ConfigHandler handles configuration export/import HTTP requests
type ConfigHandler struct {
	configs *services.ConfigService
	store   *storage.Store
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(configs *services.ConfigService, store *storage.Store) *ConfigHandler {
	return &ConfigHandler{configs: configs, store: store}
}

// Export snapshots every recognized key into one versioned document
// GET /api/config/export
func (h *ConfigHandler) Export(c *fiber.Ctx) error {
	c.Set("Content-Disposition", `attachment; filename="tabhome-config.json"`)
	return c.JSON(h.configs.Export())
}

// Import applies an export document; all-or-nothing
// POST /api/config/import
func (h *ConfigHandler) Import(c *fiber.Ctx) error {
	if err := h.configs.Import(c.Body()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Clients should discard cached state and reinitialize
	return c.JSON(fiber.Map{"success": true, "reload": true})
}

// Validate pre-flights a document without applying it
// POST /api/config/validate
func (h *ConfigHandler) Validate(c *fiber.Ctx) error {
	return c.JSON(h.configs.Validate(c.Body()))
}

// Clear removes every registry key, resetting the dashboard to first-run
// defaults
// POST /api/storage/clear
func (h *ConfigHandler) Clear(c *fiber.Ctx) error {
	if !h.store.ClearAll() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear storage",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
