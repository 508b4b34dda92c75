package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"` // SQLite file backing the key-value store

	// Weather proxy configuration
	WeatherUpstreamURL string        `yaml:"weather_upstream_url"`
	WeatherCacheTTL    time.Duration `yaml:"weather_cache_ttl"`

	// AI chat proxy configuration
	ChatDefaultBaseURL  string        `yaml:"chat_default_base_url"`
	ChatDefaultModel    string        `yaml:"chat_default_model"`
	ChatUpstreamTimeout time.Duration `yaml:"chat_upstream_timeout"`

	// Seed document: an exported config file applied on startup and
	// re-applied whenever it changes on disk
	SeedFile string `yaml:"seed_file"`

	AllowedOrigins string `yaml:"allowed_origins"`
}

// Load loads configuration from environment variables with defaults.
// If TABHOME_CONFIG points at a YAML file, values from the file override
// the environment.
func Load() *Config {
	cfg := &Config{
		Port:                getEnv("PORT", "8090"),
		DatabasePath:        getEnv("DATABASE_PATH", "tabhome.db"),
		WeatherUpstreamURL:  getEnv("WEATHER_UPSTREAM_URL", "https://uapis.cn/api/v1/misc/weather"),
		WeatherCacheTTL:     getDurationEnv("WEATHER_CACHE_TTL", 10*time.Minute),
		ChatDefaultBaseURL:  getEnv("CHAT_DEFAULT_BASE_URL", "https://api.openai.com/v1"),
		ChatDefaultModel:    getEnv("CHAT_DEFAULT_MODEL", "gpt-4o-mini"),
		ChatUpstreamTimeout: getDurationEnv("CHAT_UPSTREAM_TIMEOUT", 120*time.Second),
		SeedFile:            getEnv("CONFIG_SEED_FILE", ""),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", ""),
	}

	if path := os.Getenv("TABHOME_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			fmt.Printf("⚠️  Failed to load config file %s: %v\n", path, err)
		}
	}

	return cfg
}

// applyFile overlays values from a YAML config file
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
