package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the visibility scan pipeline service
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBEnabled  bool
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// OpenAI configuration
	OpenAIAPIKey string
	OpenAIModel  string

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string

	// Scan configuration
	DefaultQueryCount int
	QueryTimeout      time.Duration
	OpenAISetTimeout  time.Duration
	GeminiSetTimeout  time.Duration

	// RabbitMQ configuration
	AMQPURL              string
	AMQPExchange         string
	ScanResultRoutingKey string
	ScanRequestQueue     string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// Server defaults
		Port: getEnv("PORT", "8080"),

		// Database defaults
		DBEnabled:  getBoolEnv("DB_ENABLED", false),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret_app"),
		DBName:     getEnv("DB_NAME", "visibility"),

		// Provider defaults
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		// Scan defaults: 15s per call, a tighter set budget for OpenAI
		// than for Gemini.
		DefaultQueryCount: getIntEnv("DEFAULT_QUERY_COUNT", 12),
		QueryTimeout:      getDurationEnv("QUERY_TIMEOUT", 15*time.Second),
		OpenAISetTimeout:  getDurationEnv("OPENAI_SET_TIMEOUT", 45*time.Second),
		GeminiSetTimeout:  getDurationEnv("GEMINI_SET_TIMEOUT", 60*time.Second),

		// RabbitMQ defaults
		AMQPURL:              getEnv("AMQP_URL", ""),
		AMQPExchange:         getEnv("AMQP_EXCHANGE", "visibility"),
		ScanResultRoutingKey: getEnv("SCAN_RESULT_ROUTING_KEY", "scan.result"),
		ScanRequestQueue:     getEnv("SCAN_REQUEST_QUEUE", "scan.requests"),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable or returns a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
