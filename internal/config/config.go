package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	AnthropicAPIKey   string
	AnthropicModel    string
	DefaultUserID     string
	IngestWorkerCount int
	IngestQueueSize   int
	GenWorkerCount    int
	GenQueueSize      int
	MaxChunkTokens    int
	MaxExamQuestions  int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:lawflow.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		AnthropicAPIKey:   envOr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:    envOr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		DefaultUserID:     envOr("DEFAULT_USER_ID", "local"),
		IngestWorkerCount: envIntOr("INGEST_WORKER_COUNT", 2),
		IngestQueueSize:   envIntOr("INGEST_QUEUE_SIZE", 32),
		GenWorkerCount:    envIntOr("GEN_WORKER_COUNT", 2),
		GenQueueSize:      envIntOr("GEN_QUEUE_SIZE", 64),
		MaxChunkTokens:    envIntOr("MAX_CHUNK_TOKENS", 800),
		MaxExamQuestions:  envIntOr("MAX_EXAM_QUESTIONS", 20),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
