package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tabhome/internal/models"
	"tabhome/internal/services"
	"tabhome/internal/storage"
)

// StateHandler serves the remaining dashboard state keys: to-dos, quick
// links, theme, AI provider configs and the current-config pointer, and
// the last-chosen weather city. Each key is read and written wholesale —
// the storage layer shuttles the JSON without touching field internals.
type StateHandler struct {
	store   *storage.Store
	metrics *services.Metrics
}

// NewStateHandler creates a new StateHandler
func NewStateHandler(store *storage.Store, metrics *services.Metrics) *StateHandler {
	return &StateHandler{store: store, metrics: metrics}
}

// GetTodos handles GET /api/todos
func (h *StateHandler) GetTodos(c *fiber.Ctx) error {
	todos := []models.TodoItem{}
	h.store.Get(storage.KeyTodos, &todos)
	return c.JSON(todos)
}

// PutTodos handles PUT /api/todos
func (h *StateHandler) PutTodos(c *fiber.Ctx) error {
	var todos []models.TodoItem
	if err := c.BodyParser(&todos); err != nil {
		return badBody(c)
	}
	return h.write(c, storage.KeyTodos, todos)
}

// GetQuickLinks handles GET /api/quick-links
func (h *StateHandler) GetQuickLinks(c *fiber.Ctx) error {
	links := models.DefaultQuickLinks()
	h.store.Get(storage.KeyQuickLinks, &links)
	return c.JSON(links)
}

// PutQuickLinks handles PUT /api/quick-links
func (h *StateHandler) PutQuickLinks(c *fiber.Ctx) error {
	var links []models.QuickLink
	if err := c.BodyParser(&links); err != nil {
		return badBody(c)
	}
	return h.write(c, storage.KeyQuickLinks, links)
}

// GetTheme handles GET /api/theme
func (h *StateHandler) GetTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"theme": h.store.GetString(storage.KeyTheme, "")})
}

// PutTheme handles PUT /api/theme
func (h *StateHandler) PutTheme(c *fiber.Ctx) error {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	return h.write(c, storage.KeyTheme, body.Theme)
}

// GetAIConfigs handles GET /api/ai-configs
func (h *StateHandler) GetAIConfigs(c *fiber.Ctx) error {
	configs := models.DefaultAIConfigs()
	h.store.Get(storage.KeyAIConfigs, &configs)
	return c.JSON(configs)
}

// PutAIConfigs handles PUT /api/ai-configs
func (h *StateHandler) PutAIConfigs(c *fiber.Ctx) error {
	var configs []models.AIConfig
	if err := c.BodyParser(&configs); err != nil {
		return badBody(c)
	}
	return h.write(c, storage.KeyAIConfigs, configs)
}

// GetCurrentAIConfig handles GET /api/ai-configs/current
func (h *StateHandler) GetCurrentAIConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"id": h.store.GetString(storage.KeyAICurrentConfig, "")})
}

// PutCurrentAIConfig handles PUT /api/ai-configs/current. The id is not
// checked against the config list; dangling references are tolerated.
func (h *StateHandler) PutCurrentAIConfig(c *fiber.Ctx) error {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	return h.write(c, storage.KeyAICurrentConfig, body.ID)
}

// GetWeatherCity handles GET /api/weather/city
func (h *StateHandler) GetWeatherCity(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"city": h.store.GetString(storage.KeyWeatherCity, "")})
}

// PutWeatherCity handles PUT /api/weather/city
func (h *StateHandler) PutWeatherCity(c *fiber.Ctx) error {
	var body struct {
		City string `json:"city"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	return h.write(c, storage.KeyWeatherCity, body.City)
}

func (h *StateHandler) write(c *fiber.Ctx, key string, value interface{}) error {
	if !h.store.Set(key, value) {
		h.metrics.StorageWriteFailures.Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save " + key,
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}
