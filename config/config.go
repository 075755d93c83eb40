package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"quina/database"

	"github.com/joho/godotenv"
)

// DefaultProviderURL is the public Caixa endpoint for Quina results
const DefaultProviderURL = "https://servicebus2.caixa.gov.br/portaldeloterias/api/quina"

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Remote provider configuration
	ProviderURL               string
	ProviderTimeout           time.Duration
	ProviderRequestsPerSecond int

	// Suggestion configuration
	MinSuggestionNumbers int // Smallest accepted set size (inclusive)
	MaxSuggestionNumbers int // Largest accepted set size (inclusive)

	// NATS configuration
	NATSServers   string // NATS server addresses (comma-separated), empty disables publishing
	NATSJetStream bool

	// Sync worker configuration
	SyncSchedule string // Cron expression, evaluated in SyncTimezone
	SyncTimezone string
	SyncOnStart  bool

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "stdout", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the process runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from environment variables, reading an optional .env file first
func load() (*Config, error) {
	// A missing .env file is fine, real environment variables still apply
	_ = godotenv.Load()

	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Provider
		ProviderURL:               getEnvWithDefault("PROVIDER_URL", DefaultProviderURL),
		ProviderTimeout:           10 * time.Second,
		ProviderRequestsPerSecond: 5,

		// Suggestions
		MinSuggestionNumbers: 5,
		MaxSuggestionNumbers: 15,

		// NATS
		NATSServers:   os.Getenv("NATS_SERVERS"),
		NATSJetStream: os.Getenv("NATS_JETSTREAM") == "true",

		// Sync worker, Quina is drawn Monday to Saturday at 20:00 BRT
		SyncSchedule: getEnvWithDefault("SYNC_SCHEDULE", "30 21 * * 1-6"),
		SyncTimezone: getEnvWithDefault("SYNC_TIMEZONE", "America/Sao_Paulo"),
		SyncOnStart:  os.Getenv("SYNC_ON_START") == "true",

		// OpenTelemetry
		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER", "stdout"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_ENDPOINT", "otel-collector:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "quina"),
		OTelExportIntervalMillis: 30000,

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if timeout := os.Getenv("PROVIDER_TIMEOUT"); timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil {
			config.ProviderTimeout = parsed
		}
	}
	if rps := os.Getenv("PROVIDER_REQUESTS_PER_SECOND"); rps != "" {
		if parsed, err := strconv.Atoi(rps); err == nil && parsed > 0 {
			config.ProviderRequestsPerSecond = parsed
		}
	}
	if minNumbers := os.Getenv("SUGGESTION_MIN_NUMBERS"); minNumbers != "" {
		if parsed, err := strconv.Atoi(minNumbers); err == nil {
			config.MinSuggestionNumbers = parsed
		}
	}
	if maxNumbers := os.Getenv("SUGGESTION_MAX_NUMBERS"); maxNumbers != "" {
		if parsed, err := strconv.Atoi(maxNumbers); err == nil {
			config.MaxSuggestionNumbers = parsed
		}
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMillis = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if c.MinSuggestionNumbers < 1 || c.MaxSuggestionNumbers > 80 || c.MinSuggestionNumbers > c.MaxSuggestionNumbers {
		return fmt.Errorf("invalid suggestion bounds: %d..%d", c.MinSuggestionNumbers, c.MaxSuggestionNumbers)
	}
	if c.Environment != "test" {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:               "test",
		ProviderURL:               DefaultProviderURL,
		ProviderTimeout:           2 * time.Second,
		ProviderRequestsPerSecond: 100,
		MinSuggestionNumbers:      5,
		MaxSuggestionNumbers:      15,
		SyncSchedule:              "30 21 * * 1-6",
		SyncTimezone:              "America/Sao_Paulo",
		OTelExporterType:          "none",
		OTelServiceName:           "quina-test",
		OTelExportIntervalMillis:  1000,
		LogLevel:                  "debug",
	}
}
