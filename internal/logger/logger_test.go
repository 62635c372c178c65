package logger

import (
	"os"
	"path/filepath"
	"testing"

	"mindguard/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerFileOutput(t *testing.T) {
	t.Cleanup(func() {
		Logger = zerolog.Nop()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "test.log")
	err := InitLogger(config.LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     "file",
		FilePath:   path,
		TimeFormat: "unix",
	})
	require.NoError(t, err)

	log := With("pipeline")
	log.Info().Str("emotion", "neutral").Msg("message handled")
	log.Debug().Msg("hidden at info level")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"emotion":"neutral"`)
	assert.Contains(t, string(data), `"service":"mindguard"`)
	assert.Contains(t, string(data), `"component":"pipeline"`)
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(config.LogConfig{Level: "shouty"})
	assert.Error(t, err)
}
