package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	kvmemory "github.com/telconova/portal/internal/platform/kvstore/memory"
	kvsqlite "github.com/telconova/portal/internal/platform/kvstore/sqlite"

	"github.com/telconova/portal/internal/platform/kvstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStore_FallsBackToMemory(t *testing.T) {
	store, cleanup, err := OpenStore(context.Background(), Config{}, discardLogger())
	require.NoError(t, err)
	defer cleanup()
	require.IsType(t, &kvmemory.Store{}, store)
}

func TestOpenStore_UsesSQLitePath(t *testing.T) {
	cfg := Config{SQLitePath: filepath.Join(t.TempDir(), "cache.db")}
	store, cleanup, err := OpenStore(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer cleanup()
	require.IsType(t, &kvsqlite.Store{}, store)

	require.NoError(t, store.Put(context.Background(), "ns", kvstore.KeyToken, []byte("tok")))
	raw, err := store.Get(context.Background(), "ns", kvstore.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "tok", string(raw))
}

func TestNewServices_WiresEveryContext(t *testing.T) {
	cfg := Config{BackendURL: "http://backend.invalid", CountriesURL: "http://countries.invalid", ColombiaURL: "http://colombia.invalid", VerificationCode: "654321"}
	services, err := NewServices(cfg, kvmemory.NewStore(), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, services.Auth)
	require.NotNil(t, services.Clients)
	require.NotNil(t, services.Orders)
	require.NotNil(t, services.Geo)

	require.NoError(t, services.Auth.VerifyCode(context.Background(), "654321"))
	require.Error(t, services.Auth.VerifyCode(context.Background(), "123456"))
}

func TestNewServices_RejectsBadBackendURL(t *testing.T) {
	_, err := NewServices(Config{BackendURL: "://nope"}, kvmemory.NewStore(), nil, nil)
	require.Error(t, err)
}

func TestRequireSharedStore_RefusesMemoryStore(t *testing.T) {
	require.ErrorIs(t, RequireSharedStore(kvmemory.NewStore()), ErrProcessLocalStore)

	store, err := kvsqlite.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, RequireSharedStore(store))
}

func TestServe_RunsBackgroundTasksUntilCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	started := make(chan struct{})
	stopped := make(chan struct{})
	task := func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(stopped)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, kvmemory.NewStore(), Config{}, discardLogger(), task) }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("background task did not start")
	}
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
	select {
	case <-stopped:
	default:
		t.Fatal("background task was not stopped")
	}
}

func TestConnectTemporal_Disabled(t *testing.T) {
	c, err := ConnectTemporal(Config{TemporalDisabled: true}, nil, "test")
	require.Error(t, err)
	require.Nil(t, c)
}

func TestServe_PurgesAndStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := kvmemory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "idle", kvstore.KeyWorkOrders, []byte("[]")))

	cfg := Config{CacheIdleTTL: time.Nanosecond, CachePurgeInterval: 5 * time.Millisecond}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- serve(runCtx, server, store, cfg, discardLogger()) }()

	require.Eventually(t, func() bool {
		_, err := store.Get(ctx, "idle", kvstore.KeyWorkOrders)
		return err == kvstore.ErrNotFound
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestPurgeOnce_ReportsRemoved(t *testing.T) {
	store := kvmemory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a", kvstore.KeyClients, []byte("[]")))
	require.NoError(t, store.Put(ctx, "a", kvstore.KeyToken, []byte("t")))

	removed, err := PurgeOnce(ctx, store, -time.Hour, discardLogger())
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)
}
