package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tabhome/internal/models"
	"tabhome/internal/storage"
)

// ConfigService handles versioned export and import of the whole
// recognized configuration. Conversations are deliberately excluded: they
// are exported and imported one at a time through the conversation
// service.
type ConfigService struct {
	store    *storage.Store
	notifier *SettingsNotifier
}

// NewConfigService creates a new config service
func NewConfigService(store *storage.Store, notifier *SettingsNotifier) *ConfigService {
	return &ConfigService{store: store, notifier: notifier}
}

// Export snapshots every recognized top-level key into one versioned
// document. Keys never written read as their registry defaults.
func (s *ConfigService) Export() models.AppConfig {
	return models.AppConfig{
		Version:           storage.SettingsVersion,
		AIConfigs:         s.snapshot(storage.KeyAIConfigs),
		AICurrentConfigID: s.snapshot(storage.KeyAICurrentConfig),
		Todos:             s.snapshot(storage.KeyTodos),
		QuickLinks:        s.snapshot(storage.KeyQuickLinks),
		Theme:             s.snapshot(storage.KeyTheme),
		UserProfile:       s.snapshot(storage.KeyUserProfile),
		ExportedAt:        time.Now().UTC().Format(time.RFC3339),
	}
}

// snapshot reads the raw stored value at key, falling back to the registry
// default when the key is absent or corrupt
func (s *ConfigService) snapshot(key string) json.RawMessage {
	var raw json.RawMessage
	if s.store.Get(key, &raw) {
		return raw
	}

	fallback, err := json.Marshal(storage.Registry()[key])
	if err != nil {
		return json.RawMessage("null")
	}
	return fallback
}

// Import applies an export document. The version marker is mandatory; a
// document without one is rejected before anything is written. Recognized
// fields present in the document overwrite their keys wholesale, in a
// single transaction, and absent fields leave their keys untouched. On
// success the stored version marker is brought to the current schema
// version and a reload-required notification is published.
func (s *ConfigService) Import(data []byte) error {
	var doc models.AppConfig
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid config format: %w", err)
	}

	if doc.Version == "" {
		return fmt.Errorf("invalid config format: missing version")
	}

	staged := map[string]interface{}{
		storage.KeySettingsVersion: storage.SettingsVersion,
	}
	stage := func(key string, raw json.RawMessage) {
		if len(raw) > 0 {
			staged[key] = raw
		}
	}
	stage(storage.KeyAIConfigs, doc.AIConfigs)
	stage(storage.KeyAICurrentConfig, doc.AICurrentConfigID)
	stage(storage.KeyTodos, doc.Todos)
	stage(storage.KeyQuickLinks, doc.QuickLinks)
	stage(storage.KeyTheme, doc.Theme)
	stage(storage.KeyUserProfile, doc.UserProfile)

	if !s.store.SetMany(staged) {
		return fmt.Errorf("failed to apply imported configuration")
	}

	log.Printf("✅ [CONFIG] Configuration imported (version %s, %d fields)", doc.Version, len(staged)-1)

	// Running components may hold stale copies of anything we just overwrote
	s.notifier.Publish(models.TopicConfigImported, doc.Version)
	return nil
}

// Validate parses a document without applying it, used to pre-flight a
// file before committing
func (s *ConfigService) Validate(data []byte) models.ValidationResult {
	var doc struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.ValidationResult{Valid: false, Error: "Invalid JSON format"}
	}

	if doc.Version == "" {
		return models.ValidationResult{Valid: false, Error: "Missing version field"}
	}

	return models.ValidationResult{Valid: true, Version: doc.Version}
}
