package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/lunchwheel/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	PlacesAPI   PlacesAPIConfig `toml:"places_api"`
	Location    LocationConfig  `toml:"location"`
	Wheel       WheelConfig     `toml:"wheel"`
	WebSocket   WebSocketConfig `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
	InMemory       bool   `toml:"in_memory"`        // Keep everything in memory (tests, throwaway sessions)
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// PlacesAPIConfig contains Google Places API configuration
type PlacesAPIConfig struct {
	APIKey         string        `toml:"api_key"`         // Google Places API key
	BaseURL        string        `toml:"base_url"`        // Nearby Search endpoint
	RateLimit      time.Duration `toml:"rate_limit"`      // Minimum time between API requests
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout
}

// LocationConfig selects where the current position comes from
type LocationConfig struct {
	Provider  string        `toml:"provider"`  // "reported" (popup geolocation) or "static"
	Latitude  float64       `toml:"latitude"`  // static provider only
	Longitude float64       `toml:"longitude"` // static provider only
	MaxAge    time.Duration `toml:"max_age"`   // reported positions older than this are unavailable
}

// WheelConfig contains search and wheel population settings
type WheelConfig struct {
	MaxOptions       int           `toml:"max_options"`       // Segments drawn on the wheel
	PlaceType        string        `toml:"place_type"`        // Places "type" filter
	Keyword          string        `toml:"keyword"`           // Places "keyword" filter
	ProgressInterval time.Duration `toml:"progress_interval"` // Cosmetic progress tick cadence
	ProgressStep     int           `toml:"progress_step"`     // Percent added per tick
	ProgressCap      int           `toml:"progress_cap"`      // Animation never passes this while waiting
	SettleDelay      time.Duration `toml:"settle_delay"`      // Pause at 100% before the wheel is redrawn
}

// WebSocketConfig contains configuration for popup connections
type WebSocketConfig struct {
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// NewDefaultConfig returns the built-in configuration
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8787,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		PlacesAPI: PlacesAPIConfig{
			BaseURL:        "https://maps.googleapis.com/maps/api/place/nearbysearch/json",
			RateLimit:      time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Location: LocationConfig{
			Provider: "reported",
			MaxAge:   10 * time.Minute,
		},
		Wheel: WheelConfig{
			MaxOptions:       8,
			PlaceType:        "restaurant",
			Keyword:          "healthy",
			ProgressInterval: 50 * time.Millisecond,
			ProgressStep:     5,
			ProgressCap:      70,
			SettleDelay:      500 * time.Millisecond,
		},
		WebSocket: WebSocketConfig{
			WriteTimeout: 5 * time.Second,
		},
	}
}

// LoadFromFile loads configuration from a single file
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier ones. CLI flags are applied afterwards via ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies LUNCHWHEEL_* environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LUNCHWHEEL_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server
	if port := os.Getenv("LUNCHWHEEL_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LUNCHWHEEL_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage
	if badgerPath := os.Getenv("LUNCHWHEEL_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging
	if level := os.Getenv("LUNCHWHEEL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LUNCHWHEEL_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("LUNCHWHEEL_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Places API
	if apiKey := os.Getenv("LUNCHWHEEL_PLACES_API_KEY"); apiKey != "" {
		config.PlacesAPI.APIKey = apiKey
	}
	if baseURL := os.Getenv("LUNCHWHEEL_PLACES_BASE_URL"); baseURL != "" {
		config.PlacesAPI.BaseURL = baseURL
	}
	if timeout := os.Getenv("LUNCHWHEEL_PLACES_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.PlacesAPI.RequestTimeout = d
		}
	}

	// Location
	if provider := os.Getenv("LUNCHWHEEL_LOCATION_PROVIDER"); provider != "" {
		config.Location.Provider = provider
	}
	if lat := os.Getenv("LUNCHWHEEL_LOCATION_LATITUDE"); lat != "" {
		if v, err := strconv.ParseFloat(lat, 64); err == nil {
			config.Location.Latitude = v
		}
	}
	if lng := os.Getenv("LUNCHWHEEL_LOCATION_LONGITUDE"); lng != "" {
		if v, err := strconv.ParseFloat(lng, 64); err == nil {
			config.Location.Longitude = v
		}
	}

	// Wheel
	if keyword := os.Getenv("LUNCHWHEEL_WHEEL_KEYWORD"); keyword != "" {
		config.Wheel.Keyword = keyword
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key by name.
// Resolution order: environment variable -> KV store -> config fallback -> error
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string]string{
		"google_places_api_key": "LUNCHWHEEL_PLACES_API_KEY",
	}

	if envVarName, ok := keyToEnvMapping[name]; ok {
		if envValue := os.Getenv(envVarName); envValue != "" {
			return envValue, nil
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}
