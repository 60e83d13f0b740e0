package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Redis (OAuth state). Empty keeps state in memory.
	RedisURL string

	// Kafka event stream. Empty processes events inline.
	KafkaBrokers []string
	KafkaTopic   string

	// API Configuration
	APIPort     string
	APIHost     string
	CORSOrigins []string

	// Shopify
	ShopifyAPIKey     string
	ShopifyAPISecret  string
	ShopifyAppURL     string
	ShopifyAPIVersion string
	Scopes            []string

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	AITimeout     time.Duration

	// Batch upload
	BatchDelay time.Duration

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", "sqlite://ezproduct.db"),
		RedisURL:          getEnv("REDIS_URL", ""),
		KafkaBrokers:      getEnvAsSlice("KAFKA_BROKERS", nil),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "ezproduct-events"),
		APIPort:           getEnv("API_PORT", "8080"),
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		CORSOrigins:       getEnvAsSlice("CORS_ORIGINS", []string{"https://admin.shopify.com"}),
		ShopifyAPIKey:     getEnv("SHOPIFY_API_KEY", ""),
		ShopifyAPISecret:  getEnv("SHOPIFY_API_SECRET", ""),
		ShopifyAppURL:     strings.TrimRight(getEnv("SHOPIFY_APP_URL", "http://localhost:8080"), "/"),
		ShopifyAPIVersion: getEnv("SHOPIFY_API_VERSION", "2025-01"),
		Scopes: getEnvAsSlice("SCOPES", []string{
			"write_products", "read_products",
			"write_inventory", "read_inventory", "read_locations",
			"write_publications", "read_publications",
		}),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", ""),
		GeminiBaseURL: strings.TrimRight(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"), "/"),
		AITimeout:     getEnvAsDuration("AI_TIMEOUT", 90*time.Second),
		BatchDelay:    getEnvAsDuration("BATCH_DELAY", 2*time.Second),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}, nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs := getEnvAsInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
