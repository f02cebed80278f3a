package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestZerologSink(t *testing.T) {
	t.Run("writes typed fields", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewSink(zerolog.New(&buf))

		sink.Emit(WarnLevel, "move failed",
			F("turn", 3),
			F("room", "r1"),
			F("elapsed", 2*time.Millisecond),
			F("error", errors.New("boom")),
			F("move", stringer{}),
			F("ambers", map[string]int{"ONE": 1}),
		)

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Equal(t, "warn", got["level"])
		require.Equal(t, "move failed", got["message"])
		require.Equal(t, 3.0, got["turn"])
		require.Equal(t, "r1", got["room"])
		require.Equal(t, "boom", got["error"])
		require.Equal(t, "stringer", got["move"])
		require.Equal(t, map[string]any{"ONE": 1.0}, got["ambers"])
	})

	t.Run("respects the logger level", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewSink(zerolog.New(&buf).Level(zerolog.WarnLevel))

		sink.Emit(InfoLevel, "ignored")
		require.Empty(t, buf.String())
	})
}

func TestSetup(t *testing.T) {
	_, err := Setup("verbose", false)
	require.Error(t, err)

	logger, err := Setup("debug", false)
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}
