package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tabhome/internal/models"
	"tabhome/internal/services"
)

// ConversationHandler handles conversation HTTP requests
type ConversationHandler struct {
	conversations *services.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversations *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// List returns sorted conversation metadata: pinned first, then most
// recently updated
// GET /api/conversations
func (h *ConversationHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.conversations.Sorted())
}

// Create starts a fresh, empty conversation
// POST /api/conversations
func (h *ConversationHandler) Create(c *fiber.Ctx) error {
	var body struct {
		ConfigID string `json:"configId"`
		Title    string `json:"title"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return badBody(c)
	}

	conversation := h.conversations.Create(body.ConfigID, body.Title)
	return c.Status(fiber.StatusCreated).JSON(conversation)
}

// Get returns one full conversation
// GET /api/conversations/:id
func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	conversation, ok := h.conversations.Get(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSON(conversation)
}

// Delete removes a conversation; the current-pointer is cleared if it
// pointed here
// DELETE /api/conversations/:id
func (h *ConversationHandler) Delete(c *fiber.Ctx) error {
	if !h.conversations.Delete(c.Params("id")) {
		return notFound(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AddMessage appends a message to the log
// POST /api/conversations/:id/messages
func (h *ConversationHandler) AddMessage(c *fiber.Ctx) error {
	var message models.ChatMessage
	if err := c.BodyParser(&message); err != nil {
		return badBody(c)
	}

	if message.Role != models.RoleUser && message.Role != models.RoleAssistant && message.Role != models.RoleSystem {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role. Must be 'user', 'assistant' or 'system'",
		})
	}

	if !h.conversations.AddMessage(c.Params("id"), message) {
		return notFound(c)
	}

	conversation, _ := h.conversations.Get(c.Params("id"))
	return c.JSON(conversation)
}

// UpdateLastMessage replaces the streamed assistant message's content with
// the accumulated text. A no-op when the last message is not from the
// assistant.
// PUT /api/conversations/:id/last-message
func (h *ConversationHandler) UpdateLastMessage(c *fiber.Ctx) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}

	h.conversations.UpdateLastMessage(c.Params("id"), body.Content)
	return c.JSON(fiber.Map{"success": true})
}

// TogglePin flips the pin state
// POST /api/conversations/:id/pin
func (h *ConversationHandler) TogglePin(c *fiber.Ctx) error {
	if !h.conversations.TogglePin(c.Params("id")) {
		return notFound(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

// UpdateTitle renames a conversation
// PUT /api/conversations/:id/title
func (h *ConversationHandler) UpdateTitle(c *fiber.Ctx) error {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	if body.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	if !h.conversations.UpdateTitle(c.Params("id"), body.Title) {
		return notFound(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Export serializes one conversation record verbatim as a download
// GET /api/conversations/:id/export
func (h *ConversationHandler) Export(c *fiber.Ctx) error {
	data, err := h.conversations.Export(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", `attachment; filename="conversation-`+c.Params("id")+`.json"`)
	return c.Send(data)
}

// Import stores an exported conversation under a freshly minted id
// POST /api/conversations/import
func (h *ConversationHandler) Import(c *fiber.Ctx) error {
	conversation, err := h.conversations.Import(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(conversation)
}

// GetCurrent returns the current-conversation pointer
// GET /api/conversations/current
func (h *ConversationHandler) GetCurrent(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"id": h.conversations.CurrentID()})
}

// SetCurrent updates the current-conversation pointer
// PUT /api/conversations/current
func (h *ConversationHandler) SetCurrent(c *fiber.Ctx) error {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}

	if _, ok := h.conversations.Get(body.ID); !ok {
		return notFound(c)
	}

	h.conversations.SetCurrentID(body.ID)
	return c.JSON(fiber.Map{"success": true})
}

// ClearCurrent removes the current-conversation pointer
// DELETE /api/conversations/current
func (h *ConversationHandler) ClearCurrent(c *fiber.Ctx) error {
	h.conversations.ClearCurrentID()
	return c.JSON(fiber.Map{"success": true})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Conversation not found",
	})
}
