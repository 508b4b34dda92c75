package services

import (
	"log"

	"tabhome/internal/storage"
)

// MigrationService is the version-check-and-upgrade seam run at startup.
// No migrations have been authored yet; Migrate exists so future schema
// changes have a single place to land.
type MigrationService struct {
	store *storage.Store
}

// NewMigrationService creates a new migration service
func NewMigrationService(store *storage.Store) *MigrationService {
	return &MigrationService{store: store}
}

// NeedsMigration reports whether the stored version marker differs from
// the compiled-in schema version
func (s *MigrationService) NeedsMigration() bool {
	return s.store.GetString(storage.KeySettingsVersion, "") != storage.SettingsVersion
}

// Migrate runs pending data migrations. Placeholder: nothing to transform
// between the versions shipped so far.
func (s *MigrationService) Migrate() {
	log.Printf("📦 [MIGRATION] Migrating stored data to version %s", storage.SettingsVersion)
}

// Initialize stamps the version marker on first run and triggers the
// migration gate afterwards
func (s *MigrationService) Initialize() {
	if s.store.GetString(storage.KeySettingsVersion, "") == "" {
		s.store.Set(storage.KeySettingsVersion, storage.SettingsVersion)
		return
	}

	if s.NeedsMigration() {
		s.Migrate()
		s.store.Set(storage.KeySettingsVersion, storage.SettingsVersion)
	} else {
		log.Println("✅ [MIGRATION] Current version is up to date")
	}
}
