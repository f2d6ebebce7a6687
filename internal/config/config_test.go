package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpaulsen/lawflow/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:lawflow.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "local", cfg.DefaultUserID)
	assert.Equal(t, 2, cfg.IngestWorkerCount)
	assert.Equal(t, 800, cfg.MaxChunkTokens)
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GEN_WORKER_COUNT", "4")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 4, cfg.GenWorkerCount)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Clearenv()
	t.Setenv("INGEST_QUEUE_SIZE", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, 32, cfg.IngestQueueSize)
}
