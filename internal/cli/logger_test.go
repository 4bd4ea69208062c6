package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/multipid/internal/config"
	"github.com/mrz1836/multipid/internal/logging"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zerolog.DebugLevel, selectLevel(true, false))
	assert.Equal(t, zerolog.WarnLevel, selectLevel(false, true))
	assert.Equal(t, zerolog.InfoLevel, selectLevel(false, false))
}

func TestSelectOutput_NonTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Same(t, &buf, selectOutput(&buf))
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, true, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.InDelta(t, float64(os.Getpid()), entry[logging.FieldProcess], 0)
	assert.Contains(t, entry, "time")
}

func TestInitLogger_WritesLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "multipid.log")
	var console bytes.Buffer

	logger := InitLogger(true, false, config.LogConfig{File: logPath, MaxSizeMB: 1, MaxBackups: 1}, &console)
	logger.Debug().Str("path", "/tmp/p").Msg("pruned dead holder")
	CloseLogFile()

	data, err := os.ReadFile(logPath) //#nosec G304 -- test file path
	require.NoError(t, err)
	assert.Contains(t, string(data), "pruned dead holder")
	assert.Contains(t, console.String(), "pruned dead holder")
}

func TestInitLogger_UnwritableLogDirWarns(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	var console bytes.Buffer
	logger := InitLogger(false, false, config.LogConfig{File: filepath.Join(blocker, "x.log"), MaxSizeMB: 1}, &console)
	logger.Info().Msg("still logging")

	assert.Contains(t, console.String(), "file logging disabled")
	assert.Contains(t, console.String(), "still logging")
}
