package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithConfig_LogsAtConfiguredLevel(t *testing.T) {
	var out bytes.Buffer
	instruments, shutdown, err := InitWithConfig(context.Background(), "gallery-test", Config{
		Environment:  "test",
		LogLevel:     "warn",
		StdoutTraces: true,
	}, &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	instruments.Logger.Info("hidden")
	instruments.Logger.Warn("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "gallery-test", entry["service"])

	assert.NotNil(t, instruments.Tracer("test"))
	assert.NotNil(t, instruments.Meter("test"))
}

func TestInitWithConfig_RejectsUnknownLevel(t *testing.T) {
	_, _, err := InitWithConfig(context.Background(), "gallery-test", Config{LogLevel: "chatty"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "LOG_LEVEL")
}

func TestInstruments_NilFallbacks(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
	assert.NotNil(t, instruments.EffectiveLogger())
}
