package storage

import "tabhome/internal/models"

// SettingsVersion is the compiled-in schema version, stamped on first run
// and compared by the migration gate.
const SettingsVersion = "1.0.0"

// Storage keys. Stable strings; a key is never reused for a different
// shape.
const (
	KeyAIConfigs             = "ai_configs"
	KeyAICurrentConfig       = "ai_current_config_id"
	KeyAIChatHistory         = "ai_chat_history" // reserved
	KeyAIConversations       = "ai_conversations"
	KeyAICurrentConversation = "ai_current_conversation"
	KeyTodos                 = "todos"
	KeyQuickLinks            = "quickLinks"
	KeyTheme                 = "theme"
	KeySettingsVersion       = "settings_version"
	KeyUserProfile           = "user_profile"
	KeyWeatherCity           = "weather-city"
)

// Registry maps every recognized key to its first-run default. ClearAll
// removes exactly these keys and nothing else sharing the medium.
func Registry() map[string]interface{} {
	return map[string]interface{}{
		KeyAIConfigs:             models.DefaultAIConfigs(),
		KeyAICurrentConfig:       "",
		KeyAIChatHistory:         []models.ChatMessage{},
		KeyAIConversations:       map[string]models.Conversation{},
		KeyAICurrentConversation: "",
		KeyTodos:                 []models.TodoItem{},
		KeyQuickLinks:            models.DefaultQuickLinks(),
		KeyTheme:                 "",
		KeySettingsVersion:       "",
		KeyUserProfile:           models.DefaultUserProfile(),
		KeyWeatherCity:           "",
	}
}

// Keys returns the registry's key set
func Keys() []string {
	keys := make([]string, 0, len(Registry()))
	for key := range Registry() {
		keys = append(keys, key)
	}
	return keys
}
