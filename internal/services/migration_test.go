package services

import (
	"testing"

	"tabhome/internal/storage"
)

func TestFirstRunStampsVersion(t *testing.T) {
	store := setupTestStore(t)
	svc := NewMigrationService(store)

	if !svc.NeedsMigration() {
		t.Error("A fresh store has no version marker and should gate as needing migration")
	}

	svc.Initialize()

	if got := store.GetString(storage.KeySettingsVersion, ""); got != storage.SettingsVersion {
		t.Errorf("First run should stamp %q, got %q", storage.SettingsVersion, got)
	}
	if svc.NeedsMigration() {
		t.Error("After stamping, no migration should be pending")
	}
}

func TestOldVersionTriggersMigrationAndRestamp(t *testing.T) {
	store := setupTestStore(t)
	store.Set(storage.KeySettingsVersion, "0.9.0")

	svc := NewMigrationService(store)
	if !svc.NeedsMigration() {
		t.Fatal("A stale version marker should gate as needing migration")
	}

	svc.Initialize()

	if got := store.GetString(storage.KeySettingsVersion, ""); got != storage.SettingsVersion {
		t.Errorf("Initialize should bring the marker to %q, got %q", storage.SettingsVersion, got)
	}
}

func TestCurrentVersionIsNoop(t *testing.T) {
	store := setupTestStore(t)
	store.Set(storage.KeySettingsVersion, storage.SettingsVersion)

	svc := NewMigrationService(store)
	if svc.NeedsMigration() {
		t.Error("Matching version markers should not gate")
	}

	svc.Initialize()

	if got := store.GetString(storage.KeySettingsVersion, ""); got != storage.SettingsVersion {
		t.Errorf("Marker should be unchanged, got %q", got)
	}
}
