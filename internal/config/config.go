// Package config reads application settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port  int
	Debug bool

	// Storage. DatabaseURL selects Postgres; when empty the server falls
	// back to the embedded SQLite database at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// RabbitMQ. Empty disables the async generation queue.
	RabbitMQURL string

	// LLM
	LLMProvider string // claude, openai, ollama
	LLMAPIKey   string
	LLMModel    string
	OllamaURL   string

	// Content
	SynonymsPath     string // optional YAML overriding the built-in synonym table
	QuestionSeedPath string // optional YAML of questions loaded at startup
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnvInt("PORT", 8080),
		Debug:            getEnvBool("DEBUG", false),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "flowtutor.db"),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		LLMProvider:      getEnv("LLM_PROVIDER", "claude"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		LLMModel:         getEnv("LLM_MODEL", "claude-sonnet-4-20250514"),
		OllamaURL:        getEnv("OLLAMA_URL", "http://localhost:11434"),
		SynonymsPath:     getEnv("SYNONYMS_PATH", ""),
		QuestionSeedPath: getEnv("QUESTION_SEED_PATH", ""),
	}

	switch cfg.LLMProvider {
	case "claude", "openai":
		if cfg.LLMAPIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY required for %s provider", cfg.LLMProvider)
		}
	case "ollama":
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
