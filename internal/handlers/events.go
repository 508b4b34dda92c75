package handlers

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"tabhome/internal/models"
	"tabhome/internal/services"
)

// EventsHandler bridges the in-process settings notifier to browser tabs
// over a websocket. Each connected tab receives every settings event
// published after it connected; there is no replay, a tab that connects
// late reads the latest state itself.
type EventsHandler struct {
	notifier *services.SettingsNotifier
	metrics  *services.Metrics
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(notifier *services.SettingsNotifier, metrics *services.Metrics) *EventsHandler {
	return &EventsHandler{notifier: notifier, metrics: metrics}
}

// Handle handles a new websocket connection on /ws/events
func (h *EventsHandler) Handle(c *websocket.Conn) {
	connID := uuid.NewString()
	h.metrics.EventClients.Inc()
	log.Printf("🔌 [EVENTS] Client connected: %s", connID)

	// Writes happen from publisher goroutines; funnel them through one
	// channel so the websocket never sees concurrent writers
	events := make(chan models.SettingsEvent, 16)
	forward := func(topic string, payload interface{}) {
		select {
		case events <- models.SettingsEvent{Topic: topic, Payload: payload}:
		default:
			log.Printf("⚠️  [EVENTS] Client %s too slow, dropping %s", connID, topic)
		}
	}

	unsubscribers := []func(){
		h.notifier.Subscribe(models.TopicProfileSettingsUpdated, forward),
		h.notifier.Subscribe(models.TopicConfigImported, forward),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain reads so pings and close frames are processed
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
		h.metrics.EventClients.Dec()
		log.Printf("🔌 [EVENTS] Client disconnected: %s", connID)
	}()

	for {
		select {
		case <-done:
			return
		case event := <-events:
			if err := c.WriteJSON(event); err != nil {
				return
			}
		}
	}
}
