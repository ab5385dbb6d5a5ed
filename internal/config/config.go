package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGemini = "gemini"
	BackendOllama = "ollama"
)

type Config struct {
	HTTPPort    string
	DatabaseURL string
	LogLevel    string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	ModelBackend string
	GeminiAPIKey string
	GeminiModel  string
	OllamaHost   string
	OllamaModel  string

	// RedisURL is optional. When empty, revoked sessions are tracked in process.
	RedisURL string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "5000"),
		DatabaseURL:   getEnv("DATABASE_URL", "chat_logs.db"),
		LogLevel:      strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		CookieSecure:  getEnvAsBool("COOKIE_SECURE", false),
		ModelBackend:  strings.ToLower(getEnv("MODEL_BACKEND", BackendGemini)),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemma-3-27b-it"),
		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3.2:3b"),
		RedisURL:      getEnv("REDIS_URL", ""),
	}

	if cfg.ModelBackend == BackendGemini && cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = readKeyFile(getEnv("GEMINI_API_KEY_FILE", "gemini_api_key.txt"))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}
	switch c.ModelBackend {
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY environment variable or key file is required for the gemini backend")
		}
	case BackendOllama:
		if c.OllamaHost == "" {
			return errors.New("OLLAMA_HOST must not be empty for the ollama backend")
		}
	default:
		return fmt.Errorf("unknown MODEL_BACKEND %q (want %q or %q)", c.ModelBackend, BackendGemini, BackendOllama)
	}
	return nil
}

func readKeyFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
