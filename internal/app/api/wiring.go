package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/telconova/portal/internal/clients/http/geo"
	"github.com/telconova/portal/internal/clients/http/telconova"
	authbackend "github.com/telconova/portal/internal/domains/auth/adapters/backend"
	authcache "github.com/telconova/portal/internal/domains/auth/adapters/cache"
	authobs "github.com/telconova/portal/internal/domains/auth/adapters/observability"
	authapp "github.com/telconova/portal/internal/domains/auth/application"
	authports "github.com/telconova/portal/internal/domains/auth/ports"
	clientsbackend "github.com/telconova/portal/internal/domains/clients/adapters/backend"
	clientscache "github.com/telconova/portal/internal/domains/clients/adapters/cache"
	clientsobs "github.com/telconova/portal/internal/domains/clients/adapters/observability"
	clientsapp "github.com/telconova/portal/internal/domains/clients/application"
	clientsports "github.com/telconova/portal/internal/domains/clients/ports"
	ordersbackend "github.com/telconova/portal/internal/domains/orders/adapters/backend"
	orderscache "github.com/telconova/portal/internal/domains/orders/adapters/cache"
	"github.com/telconova/portal/internal/domains/orders/adapters/export"
	ordersobs "github.com/telconova/portal/internal/domains/orders/adapters/observability"
	ordersapp "github.com/telconova/portal/internal/domains/orders/application"
	ordersports "github.com/telconova/portal/internal/domains/orders/ports"
	"github.com/telconova/portal/internal/platform/kvstore"
	kvmemory "github.com/telconova/portal/internal/platform/kvstore/memory"
	kvpostgres "github.com/telconova/portal/internal/platform/kvstore/postgres"
	kvsqlite "github.com/telconova/portal/internal/platform/kvstore/sqlite"
	"github.com/telconova/portal/internal/platform/migrations"
	platformobservability "github.com/telconova/portal/internal/platform/observability"
	platformpostgres "github.com/telconova/portal/internal/platform/postgres"
	"github.com/telconova/portal/internal/shared/notify"
)

// Services bundles the decorated domain services shared by the API and the
// worker.
type Services struct {
	Auth    authports.Service
	Clients clientsports.Service
	Orders  ordersports.Service
	Geo     *geo.Client
}

// OpenStore picks the cache backend: postgres when POSTGRES_DSN connects,
// then SQLite when a path is configured, then process memory.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (kvstore.Store, func(), error) {
	if db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger); db != nil {
		if err := migrations.Run(db); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("cache store configured with postgres")
		return kvpostgres.NewStore(db), cleanup, nil
	}
	if path := strings.TrimSpace(cfg.SQLitePath); path != "" {
		store, err := kvsqlite.Open(ctx, path)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open sqlite cache %s: %w", path, err)
		}
		logger.Info("cache store configured with sqlite", slog.String("path", path))
		return store, func() { _ = store.Close() }, nil
	}
	logger.Warn("no persistent cache configured, falling back to in-memory store")
	return kvmemory.NewStore(), func() {}, nil
}

// ErrProcessLocalStore means the cache lives in this process only, so a
// Temporal worker could not see what the API writes.
var ErrProcessLocalStore = errors.New("in-memory cache store cannot be shared with a Temporal worker")

// RequireSharedStore fails for stores that other processes cannot reach.
func RequireSharedStore(store kvstore.Store) error {
	if _, ok := store.(*kvmemory.Store); ok {
		return ErrProcessLocalStore
	}
	return nil
}

// NewServices builds the three domain services over store, each wrapped in
// its tracing and metrics decorator.
func NewServices(cfg Config, store kvstore.Store, notifier notify.Notifier, instruments *platformobservability.Instruments) (*Services, error) {
	logger := effectiveLogger(instruments)
	httpClient := &http.Client{Timeout: cfg.BackendTimeout}
	backend, err := telconova.NewClient(cfg.BackendURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("configure backend client: %w", err)
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}

	coreAuth := authapp.NewService(
		authbackend.NewGateway(backend),
		authcache.NewVault(store, logger),
		authapp.WithNotifier(notifier),
		authapp.WithLogger(logger),
		authapp.WithVerificationCode(cfg.VerificationCode),
		authapp.WithPinnedSession(cfg.PinnedSessionID),
	)
	coreClients := clientsapp.NewService(
		clientscache.NewRepository(store, logger),
		clientsbackend.NewGateway(backend),
		clientsapp.WithNotifier(notifier),
	)
	coreOrders := ordersapp.NewService(
		orderscache.NewRepository(store, logger),
		orderscache.NewClientDirectory(store, logger),
		ordersbackend.NewGateway(backend),
		ordersapp.WithNotifier(notifier),
		ordersapp.WithLogger(logger),
		ordersapp.WithExporter(export.New()),
	)

	return &Services{
		Auth: authobs.New(
			coreAuth,
			authobs.WithLogger(logger),
			authobs.WithTracer(instruments.Tracer("internal.auth.application")),
			authobs.WithMeter(instruments.Meter("internal.auth.application")),
		),
		Clients: clientsobs.New(
			coreClients,
			clientsobs.WithLogger(logger),
			clientsobs.WithTracer(instruments.Tracer("internal.clients.application")),
			clientsobs.WithMeter(instruments.Meter("internal.clients.application")),
		),
		Orders: ordersobs.New(
			coreOrders,
			ordersobs.WithLogger(logger),
			ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
			ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
		),
		Geo: geo.NewClient(cfg.CountriesURL, cfg.ColombiaURL, httpClient),
	}, nil
}

// RunPurger deletes cache entries idle for longer than ttl every interval
// until ctx is done.
func RunPurger(ctx context.Context, purger kvstore.Purger, ttl, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := PurgeOnce(ctx, purger, ttl, logger); err != nil && ctx.Err() == nil {
				logger.Warn("cache purge failed", slog.String("error", err.Error()))
			}
		}
	}
}

// PurgeOnce removes entries last written before now minus ttl.
func PurgeOnce(ctx context.Context, purger kvstore.Purger, ttl time.Duration, logger *slog.Logger) (int64, error) {
	removed, err := purger.PurgeIdle(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	logger.Info("cache purge completed", slog.Int64("removed", removed), slog.Duration("ttl", ttl))
	return removed, nil
}

// ConnectTemporal dials the Temporal frontend with tracing and structured
// logging attached.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(component)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
