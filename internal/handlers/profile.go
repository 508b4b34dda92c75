package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tabhome/internal/models"
	"tabhome/internal/services"
	"tabhome/internal/storage"
)

// ProfileHandler handles user profile HTTP requests
type ProfileHandler struct {
	store    *storage.Store
	notifier *services.SettingsNotifier
	metrics  *services.Metrics
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(store *storage.Store, notifier *services.SettingsNotifier, metrics *services.Metrics) *ProfileHandler {
	return &ProfileHandler{store: store, notifier: notifier, metrics: metrics}
}

// Get retrieves the user profile
// GET /api/profile
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	profile := models.DefaultUserProfile()
	h.store.Get(storage.KeyUserProfile, &profile)
	profile.Normalize()
	return c.JSON(profile)
}

// Update overwrites the user profile as a whole record and broadcasts the
// change. Callers merge before writing; the storage layer never patches
// fields.
// PUT /api/profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var profile models.UserProfile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if profile.BackgroundMode != "" &&
		profile.BackgroundMode != models.BackgroundModeAuto &&
		profile.BackgroundMode != models.BackgroundModeManual {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid backgroundMode. Must be 'auto' or 'manual'",
		})
	}

	profile.Normalize()

	if !h.store.Set(storage.KeyUserProfile, profile) {
		h.metrics.StorageWriteFailures.Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile",
		})
	}

	h.notifier.Publish(models.TopicProfileSettingsUpdated, profile)
	return c.JSON(profile)
}
