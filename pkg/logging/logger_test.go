package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	logger := Default()
	assert.NotNil(t, logger)
}

func TestSetDefault(t *testing.T) {
	original := *Default()
	defer SetDefault(original)

	tl := NewTestLogger(t)
	SetDefault(*tl.Logger)

	Default().Info().Str("set_code", "SOI-EN001").Msg("Testing default logger")
	assert.True(t, tl.Contains("Testing default logger"))
	assert.True(t, tl.Contains("SOI-EN001"))
}

func TestLoggerWritesJSON(t *testing.T) {
	tl := NewTestLogger(t)
	tl.Logger.Info().Int("rows", 3).Msg("Starting import")

	assert.Contains(t, tl.Output(), `"rows":3`)
	assert.Contains(t, tl.Output(), "Starting import")
}

func TestGetLogLevel(t *testing.T) {
	t.Run("debug toggle", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("DEBUG", "")
		t.Setenv("COLLECTORKING_DEBUG", "1")
		assert.Equal(t, zerolog.DebugLevel, getLogLevel())
	})

	t.Run("explicit level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "warn")
		assert.Equal(t, zerolog.WarnLevel, getLogLevel())
	})
}
