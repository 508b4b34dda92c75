package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"tabhome/internal/services"
)

// ChatProxyHandler relays chat completion requests to an OpenAI-compatible
// provider and streams the SSE response back to the client verbatim. The
// provider is chosen per request through headers, so no credentials live
// on the server.
type ChatProxyHandler struct {
	defaultBaseURL string
	defaultModel   string
	client         *http.Client
	metrics        *services.Metrics
}

// NewChatProxyHandler creates a new ChatProxyHandler
func NewChatProxyHandler(defaultBaseURL, defaultModel string, upstreamTimeout time.Duration, metrics *services.Metrics) *ChatProxyHandler {
	return &ChatProxyHandler{
		defaultBaseURL: defaultBaseURL,
		defaultModel:   defaultModel,
		client:         &http.Client{Timeout: upstreamTimeout},
		metrics:        metrics,
	}
}

// chatProxyRequest is the body accepted from the dashboard
type chatProxyRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// Handle handles POST /api/ai-chat
func (h *ChatProxyHandler) Handle(c *fiber.Ctx) error {
	apiKey := c.Get("x-api-key")
	if apiKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "API Key is required",
		})
	}

	baseURL := c.Get("x-api-url")
	if baseURL == "" {
		baseURL = h.defaultBaseURL
	}
	model := c.Get("x-model")
	if model == "" {
		model = h.defaultModel
	}

	var body chatProxyRequest
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}

	reqBody, err := json.Marshal(map[string]interface{}{
		"model":    model,
		"messages": body.Messages,
		"stream":   true,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build upstream request",
		})
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build upstream request",
		})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("⚠️  [AI-CHAT] Upstream request failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "AI request failed",
		})
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		log.Printf("⚠️  [AI-CHAT] Upstream error (status %d): %s", resp.StatusCode, errBody)
		return c.Status(resp.StatusCode).JSON(fiber.Map{
			"error": "API request failed",
		})
	}

	h.metrics.ChatStreamsStarted.Inc()
	started := time.Now()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	// Relay the SSE body line by line, flushing each event as it arrives.
	// The client re-accumulates deltas and drives updateLastMessage.
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		// 1MB buffer: large deltas can overflow the 64KB default
		const maxCapacity = 1024 * 1024
		buf := make([]byte, maxCapacity)
		scanner.Buffer(buf, maxCapacity)

		for scanner.Scan() {
			if _, err := w.WriteString(scanner.Text() + "\n"); err != nil {
				log.Printf("⚠️  [AI-CHAT] Client disconnected mid-stream: %v", err)
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			log.Printf("⚠️  [AI-CHAT] Upstream stream error: %v", err)
			return
		}

		h.metrics.ChatStreamsCompleted.Inc()
		h.metrics.ChatStreamDuration.Observe(time.Since(started).Seconds())
	})

	return nil
}
