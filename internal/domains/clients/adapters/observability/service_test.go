package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/telconova/portal/internal/domains/clients/domain"
	"github.com/telconova/portal/internal/domains/clients/ports"
	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

type stubService struct {
	ports.Service
	createErr error
}

func (s stubService) Create(context.Context, session.Session, validation.ClientForm) (domain.Client, error) {
	if s.createErr != nil {
		return domain.Client{}, s.createErr
	}
	return domain.Client{ID: jsonval.Text("c-1")}, nil
}

func newRecorded(t *testing.T, inner ports.Service) (ports.Service, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return New(inner, WithTracer(provider.Tracer(tracerName))), recorder
}

func TestService_CreateRecordsSpan(t *testing.T) {
	svc, recorder := newRecorded(t, stubService{})

	_, err := svc.Create(context.Background(), session.Session{ID: "s1"}, validation.ClientForm{})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "ClientsService.Create", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestService_CreateFailureMarksSpan(t *testing.T) {
	boom := errors.New("boom")
	svc, recorder := newRecorded(t, stubService{createErr: boom})

	_, err := svc.Create(context.Background(), session.Session{ID: "s1"}, validation.ClientForm{})
	require.ErrorIs(t, err, boom)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
}
