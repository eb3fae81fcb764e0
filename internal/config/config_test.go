package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_PATH", "AI_CONFIDENCE_THRESHOLD", "EXPORTER_BATCH_SIZE", "AI_SERVICE_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "expenses.db", cfg.Database.Path)
	assert.Equal(t, 0.60, cfg.Categorizer.ConfidenceThreshold)
	assert.Equal(t, 10*time.Second, cfg.Categorizer.Timeout)
	assert.Equal(t, 100, cfg.Exporter.BatchSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/x.db")
	t.Setenv("AI_CONFIDENCE_THRESHOLD", "0.75")
	t.Setenv("EXPORTER_POLLING_INTERVAL", "2s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, 0.75, cfg.Categorizer.ConfidenceThreshold)
	assert.Equal(t, 2*time.Second, cfg.Exporter.PollingInterval)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("AI_CONFIDENCE_THRESHOLD", "1.5")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("AI_CONFIDENCE_THRESHOLD", "")
	t.Setenv("DB_PING_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}
