package storage

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"tabhome/internal/database"
)

// Store is the safe key-value layer over the persistence medium. Every
// operation is fail-soft: reads degrade to the caller-supplied default and
// writes report success as a boolean. A failure never propagates as an
// error to the caller — the store backs presentation state, and the page
// continuing to render matters more than any single value.
type Store struct {
	db *database.DB
}

// New creates a store over an initialized database
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Get deserializes the value at key into out. Returns false — leaving out
// untouched, so the caller's preset default stands — when the key is
// absent, the stored value is corrupt, or the medium is unavailable. A
// corrupt value is left in place, not auto-repaired.
func (s *Store) Get(key string, out interface{}) bool {
	var raw string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		log.Printf("⚠️  [STORAGE] Failed to get %s: %v", key, err)
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("⚠️  [STORAGE] Corrupt value at %s, falling back to default: %v", key, err)
		return false
	}

	return true
}

// GetString reads a plain string key, returning defaultValue on any miss
func (s *Store) GetString(key, defaultValue string) string {
	value := defaultValue
	s.Get(key, &value)
	return value
}

// Set serializes and writes value at key. Returns false on failure.
func (s *Store) Set(key string, value interface{}) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("⚠️  [STORAGE] Failed to serialize %s: %v", key, err)
		return false
	}

	_, err = s.db.Exec(
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, string(raw), time.Now(),
	)
	if err != nil {
		log.Printf("⚠️  [STORAGE] Failed to set %s: %v", key, err)
		return false
	}

	return true
}

// SetMany writes several keys in one transaction: either every value is
// applied or none is. Used by config import so a mid-apply failure cannot
// leave half a document behind.
func (s *Store) SetMany(values map[string]interface{}) bool {
	staged := make(map[string]string, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			log.Printf("⚠️  [STORAGE] Failed to serialize %s: %v", key, err)
			return false
		}
		staged[key] = string(raw)
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("⚠️  [STORAGE] Failed to begin transaction: %v", err)
		return false
	}

	now := time.Now()
	for key, raw := range staged {
		if _, err := tx.Exec(
			"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
			key, raw, now,
		); err != nil {
			tx.Rollback()
			log.Printf("⚠️  [STORAGE] Failed to stage %s, rolling back: %v", key, err)
			return false
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("⚠️  [STORAGE] Failed to commit: %v", err)
		return false
	}
	return true
}

// Remove deletes the value at key
func (s *Store) Remove(key string) bool {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		log.Printf("⚠️  [STORAGE] Failed to remove %s: %v", key, err)
		return false
	}
	return true
}

// ClearAll removes every key in the schema registry. Rows under other keys
// sharing the medium are untouched.
func (s *Store) ClearAll() bool {
	ok := true
	for _, key := range Keys() {
		if !s.Remove(key) {
			ok = false
		}
	}
	return ok
}
