package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	notices []Notice
}

func (r *recorder) Notify(_ context.Context, n Notice) {
	r.notices = append(r.notices, n)
}

func TestFanout_DeliversToEverySinkSkippingNil(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	fan := Fanout{a, nil, b}

	fan.Notify(context.Background(), NewNotice("s1", LevelSuccess, "Cliente creado exitosamente"))

	require.Len(t, a.notices, 1)
	require.Len(t, b.notices, 1)
	require.Equal(t, "s1", b.notices[0].SessionID)
	require.False(t, b.notices[0].At.IsZero())
}

func TestWriterNotifier_FormatsLine(t *testing.T) {
	var buf bytes.Buffer
	NewWriterNotifier(&buf).Notify(context.Background(), NewNotice("s", LevelError, "Error de conexión"))
	require.Equal(t, "[error] Error de conexión\n", buf.String())
}

func TestLogNotifier_WritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	NewLogNotifier(logger).Notify(context.Background(), NewNotice("s9", LevelInfo, "Cliente encontrado"))
	require.Contains(t, buf.String(), `"session.id":"s9"`)
	require.Contains(t, buf.String(), `"notice.message":"Cliente encontrado"`)
}

func TestNilSinksAreSafe(t *testing.T) {
	var log *LogNotifier
	var w *WriterNotifier
	require.NotPanics(t, func() {
		log.Notify(context.Background(), Notice{})
		w.Notify(context.Background(), Notice{})
		Nop{}.Notify(context.Background(), Notice{})
	})
}
