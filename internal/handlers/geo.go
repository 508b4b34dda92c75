package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tabhome/internal/geo"
)

// GeoHandler serves the static China region reference data
type GeoHandler struct{}

// NewGeoHandler creates a new geo handler
func NewGeoHandler() *GeoHandler {
	return &GeoHandler{}
}

// Provinces returns the province/city list used by the weather location picker
func (h *GeoHandler) Provinces(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"provinces": geo.Provinces(),
	})
}
