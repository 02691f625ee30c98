// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/textract/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(types.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("file", "a.png").Msg("skipped")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "skipped", entry["message"])
	assert.Equal(t, "a.png", entry["file"])
	assert.Equal(t, "textract", entry["app"])
	assert.Contains(t, entry, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(types.LogConfig{Level: "debug"}, &buf)
	log.Debug().Msg("page rendered")
	assert.Contains(t, buf.String(), "page rendered")
	assert.NotContains(t, buf.String(), `"message"`)
}
