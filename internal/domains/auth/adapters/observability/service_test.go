package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/telconova/portal/internal/domains/auth/ports"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

type stubService struct {
	ports.Service
	err error
}

func (s stubService) Login(_ context.Context, sessionID string, _ validation.LoginForm) (ports.LoginResult, error) {
	if s.err != nil {
		return ports.LoginResult{}, s.err
	}
	return ports.LoginResult{Session: session.Session{ID: sessionID, Token: "jwt"}}, nil
}

func TestService_LoginCountsOutcomes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	meter := provider.Meter(tracerName)

	ok := New(stubService{}, WithMeter(meter))
	failing := New(stubService{err: ports.ErrRejected}, WithMeter(meter))

	_, err := ok.Login(context.Background(), "s1", validation.LoginForm{})
	require.NoError(t, err)
	_, err = failing.Login(context.Background(), "s1", validation.LoginForm{})
	require.ErrorIs(t, err, ports.ErrRejected)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	sum, isSum := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, isSum)

	byOutcome := map[bool]int64{}
	for _, dp := range sum.DataPoints {
		v, found := dp.Attributes.Value(attribute.Key("login.success"))
		require.True(t, found)
		byOutcome[v.AsBool()] = dp.Value
	}
	require.Equal(t, map[bool]int64{true: 1, false: 1}, byOutcome)
}
