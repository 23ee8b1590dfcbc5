package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestInit_WritesJSONLogsAndShutsDown(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	var buf bytes.Buffer
	inst, shutdown, err := Init(context.Background(), "portal-test", WithLogOutput(&buf), WithoutSpanExport())
	require.NoError(t, err)

	inst.Logger.Info("hello", slog.String("session.id", "s1"))
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "s1", line["session.id"])

	_, span := inst.Tracer("test").Start(context.Background(), "op")
	require.True(t, span.SpanContext().IsValid())
	span.End()
	require.NotNil(t, inst.Meter("test"))

	require.NoError(t, shutdown(context.Background()))
}

func TestInstruments_NilFallsBack(t *testing.T) {
	var inst *Instruments
	require.NotNil(t, inst.Tracer("x"))
	require.NotNil(t, inst.Meter("x"))
}

func TestSampleRatio(t *testing.T) {
	t.Setenv("TRACE_SAMPLE_RATIO", "0.25")
	require.Equal(t, 0.25, sampleRatio())
	t.Setenv("TRACE_SAMPLE_RATIO", "3")
	require.Equal(t, 1.0, sampleRatio())
	t.Setenv("TRACE_SAMPLE_RATIO", "")
	require.Equal(t, 1.0, sampleRatio())
}
