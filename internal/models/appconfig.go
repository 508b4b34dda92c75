package models

import "encoding/json"

// AIConfig is one AI provider configuration
type AIConfig struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"apiKey"`
	APIURL string `json:"apiUrl"`
	Model  string `json:"model"`
}

// DefaultAIConfigs returns the first-run provider list
func DefaultAIConfigs() []AIConfig {
	return []AIConfig{
		{
			ID:     "openai",
			Name:   "OpenAI",
			APIKey: "",
			APIURL: "https://api.openai.com/v1",
			Model:  "gpt-4o-mini",
		},
	}
}

// TodoItem is one to-do note
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// QuickLink is one entry in the quick-link dock
type QuickLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

// DefaultQuickLinks returns the first-run dock entries
func DefaultQuickLinks() []QuickLink {
	return []QuickLink{
		{ID: "1", Title: "Google", URL: "https://www.google.com"},
		{ID: "2", Title: "GitHub", URL: "https://github.com"},
		{ID: "3", Title: "YouTube", URL: "https://www.youtube.com"},
	}
}

// AppConfig is the versioned export document: a snapshot of every
// recognized top-level key. Conversations are exported individually and
// are not part of this snapshot. Fields other than the version marker and
// the export timestamp are raw JSON: the storage layer shuttles them
// through without understanding their internals. Absent fields are left
// untouched on import.
type AppConfig struct {
	Version           string          `json:"version"`
	AIConfigs         json.RawMessage `json:"aiConfigs,omitempty"`
	AICurrentConfigID json.RawMessage `json:"aiCurrentConfigId,omitempty"`
	Todos             json.RawMessage `json:"todos,omitempty"`
	QuickLinks        json.RawMessage `json:"quickLinks,omitempty"`
	Theme             json.RawMessage `json:"theme,omitempty"`
	UserProfile       json.RawMessage `json:"userProfile,omitempty"`
	ExportedAt        string          `json:"exportedAt"`
}

// ValidationResult is the outcome of pre-flighting an import document
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
	Version string `json:"version,omitempty"`
}
