package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tabhome/internal/services"
)

// WeatherHandler handles weather lookup HTTP requests
type WeatherHandler struct {
	weather *services.WeatherService
	metrics *services.Metrics
}

// NewWeatherHandler creates a new WeatherHandler
func NewWeatherHandler(weather *services.WeatherService, metrics *services.Metrics) *WeatherHandler {
	return &WeatherHandler{weather: weather, metrics: metrics}
}

// Handle handles GET /api/weather?city=…|adcode=…
func (h *WeatherHandler) Handle(c *fiber.Ctx) error {
	data, err := h.weather.Lookup(c.Context(), c.Query("city"), c.Query("adcode"))
	if err != nil {
		h.metrics.WeatherLookups.WithLabelValues("error").Inc()

		var lookupErr *services.WeatherLookupError
		if errors.As(err, &lookupErr) {
			return c.Status(lookupErr.Status).JSON(lookupErr.Body)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    "INTERNAL_SERVER_ERROR",
			"message": "An internal error occurred while fetching weather data.",
			"details": fiber.Map{},
		})
	}

	h.metrics.WeatherLookups.WithLabelValues("ok").Inc()
	return c.JSON(data)
}
