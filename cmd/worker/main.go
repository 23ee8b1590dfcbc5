package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/telconova/portal/internal/app/api"
	ordersapp "github.com/telconova/portal/internal/domains/orders/application"
	platformamqp "github.com/telconova/portal/internal/platform/amqp"
	platformobservability "github.com/telconova/portal/internal/platform/observability"
	orderactivities "github.com/telconova/portal/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/telconova/portal/internal/platform/temporal/workflows/orders"
	"github.com/telconova/portal/internal/shared/notify"
)

func main() {
	ctx := context.Background()
	const serviceName = "telconova-portal-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, cleanupStore, err := api.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open cache store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupStore()

	if err := api.RequireSharedStore(store); err != nil {
		logger.Error("refusing to start Temporal worker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The worker has no WebSocket clients. Its notices are published to
	// RabbitMQ, where the API's consumer hands them to the WebSocket hub.
	notifier := notify.Fanout{notify.NewLogNotifier(logger)}
	if cfg.RabbitMQURL != "" {
		publisher, err := platformamqp.Dial(cfg.RabbitMQURL, cfg.NotificationExchange, logger)
		if err != nil {
			logger.Warn("notice publishing unavailable", slog.String("error", err.Error()))
		} else {
			defer publisher.Close()
			notifier = append(notifier, publisher)
		}
	}

	services, err := api.NewServices(cfg, store, notifier, instruments)
	if err != nil {
		logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := orderactivities.NewActivities(services.Orders, services.Auth, ordersapp.ErrInvalidInput)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderCreationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.SubmitOrder, activity.RegisterOptions{Name: orderactivities.SubmitOrderActivityName})
	w.RegisterActivityWithOptions(activities.RecordOrder, activity.RegisterOptions{Name: orderactivities.RecordOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
