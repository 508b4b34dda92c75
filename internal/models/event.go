package models

// Notifier topics. Components only agree on the storage key schema and on
// these event names, never on shared mutable memory.
const (
	TopicProfileSettingsUpdated = "profile-settings-updated"
	TopicConfigImported         = "config-imported"
)

// SettingsEvent is the wire shape of a settings-change notification as
// delivered to websocket subscribers
type SettingsEvent struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload,omitempty"`
}
