package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessHook(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(NewProcessHook())

	logger.Info().Str("path", "/tmp/pids").Msg("acquired")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.InDelta(t, float64(os.Getpid()), entry[FieldProcess], 0)
	assert.InDelta(t, float64(os.Getppid()), entry[FieldParent], 0)
	assert.Equal(t, "/tmp/pids", entry["path"])
}

func TestProcessHook_SkippedBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.WarnLevel).Hook(NewProcessHook())

	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}
