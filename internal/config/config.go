package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Database configuration
	DatabaseURL string

	// Completion model configuration
	GeminiModel   string
	AITemperature float64
	AIMaxTokens   int

	// External-call timeouts. Nothing is retried automatically; a timed-out
	// call fails the whole pipeline run.
	ScrapeTimeout   time.Duration
	GenerateTimeout time.Duration

	// Angle credits granted to a user on first contact
	DefaultCredits int

	// Scheduler configuration
	EnableScheduler bool
	RetrySchedule   string // cron expression for the failed-product sweep
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		AITemperature: getFloatEnv("AI_TEMPERATURE", 0.8),
		AIMaxTokens:   getIntEnv("AI_MAX_TOKENS", 4096),

		ScrapeTimeout:   time.Duration(getIntEnv("SCRAPE_TIMEOUT_SECONDS", 60)) * time.Second,
		GenerateTimeout: time.Duration(getIntEnv("GENERATE_TIMEOUT_SECONDS", 120)) * time.Second,

		DefaultCredits: getIntEnv("DEFAULT_ANGLE_CREDITS", 3),

		EnableScheduler: getBoolEnv("ENABLE_SCHEDULER", true),
		RetrySchedule:   getEnv("RETRY_SCHEDULE", "0 0 * * * *"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AITemperature < 0 || c.AITemperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2")
	}
	if c.DefaultCredits < 0 {
		return fmt.Errorf("DEFAULT_ANGLE_CREDITS must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
