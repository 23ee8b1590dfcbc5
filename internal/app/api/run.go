package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	portalserver "github.com/telconova/portal/go"

	ordersworkflows "github.com/telconova/portal/internal/domains/orders/adapters/workflows"
	ordersports "github.com/telconova/portal/internal/domains/orders/ports"
	platformamqp "github.com/telconova/portal/internal/platform/amqp"
	"github.com/telconova/portal/internal/platform/kvstore"
	platformobservability "github.com/telconova/portal/internal/platform/observability"
	platformwebsocket "github.com/telconova/portal/internal/platform/websocket"
	"github.com/telconova/portal/internal/shared/notify"
)

const shutdownTimeout = 5 * time.Second

// Run boots the portal HTTP API and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context) error {
	const serviceName = "telconova-portal-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, cleanupStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupStore()

	hub := platformwebsocket.NewHub(logger, platformwebsocket.WithAllowedOrigins(cfg.AllowedOrigins...))
	notifier := notify.Fanout{notify.NewLogNotifier(logger), hub}
	var background []func(context.Context) error
	if cfg.RabbitMQURL != "" {
		publisher, err := platformamqp.Dial(cfg.RabbitMQURL, cfg.NotificationExchange, logger)
		if err != nil {
			logger.Warn("notice publishing unavailable", slog.String("error", err.Error()))
		} else {
			defer publisher.Close()
			notifier = append(notifier, publisher)
			logger.Info("publishing notices to RabbitMQ", slog.String("exchange", cfg.NotificationExchange))
		}
		consumer, err := platformamqp.Subscribe(cfg.RabbitMQURL, cfg.NotificationExchange, hub, logger)
		if err != nil {
			logger.Warn("notices from other processes unavailable", slog.String("error", err.Error()))
		} else {
			defer consumer.Close()
			background = append(background, func(ctx context.Context) error {
				if err := consumer.Run(ctx); err != nil {
					logger.Warn("notice consumer stopped", slog.String("error", err.Error()))
				}
				return nil
			})
		}
	}

	services, err := NewServices(cfg, store, notifier, instruments)
	if err != nil {
		return err
	}

	var workflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(services.Orders)
	if err := RequireSharedStore(store); err != nil && !cfg.TemporalDisabled {
		logger.Warn("Temporal workflows refused, creating orders inline", slog.String("error", err.Error()))
	} else if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, creating orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := portalserver.ApiHandleFunctions{
		Sessions:         services.Auth,
		AuthAPI:          portalserver.NewAuthAPI(services.Auth),
		OrdersAPI:        portalserver.NewOrdersAPI(services.Orders, workflows),
		ClientsAPI:       portalserver.NewClientsAPI(services.Clients),
		GeoAPI:           portalserver.NewGeoAPI(services.Geo),
		NotificationsAPI: portalserver.NewNotificationsAPI(hub),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := portalserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, server, store, cfg, logger, background...)
}

// serve runs the HTTP server, the background tasks and, when the store
// supports it, the periodic cache purge. All stop when ctx is cancelled.
func serve(ctx context.Context, server *http.Server, store kvstore.Store, cfg Config, logger *slog.Logger, background ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("portal API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("portal API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	for _, task := range background {
		g.Go(func() error { return task(gctx) })
	}
	if purger, ok := store.(kvstore.Purger); ok && cfg.CachePurgeInterval > 0 {
		g.Go(func() error {
			return RunPurger(gctx, purger, cfg.CacheIdleTTL, cfg.CachePurgeInterval, logger)
		})
	}
	return g.Wait()
}
