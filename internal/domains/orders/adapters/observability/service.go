package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/domains/orders/ports"
	"github.com/telconova/portal/internal/shared/session"
)

const tracerName = "github.com/telconova/portal/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Sync(ctx context.Context, sess session.Session) ([]domain.WorkOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Sync", trace.WithAttributes(attribute.String("session.id", sess.ID)))
	defer span.End()

	s.logInfo(ctx, "syncing orders", slog.String("session.id", sess.ID), slog.Bool("session.authenticated", sess.HasToken()))
	orders, err := s.inner.Sync(ctx, sess)
	if err != nil {
		s.metrics.recordSyncFailure(ctx)
		return nil, s.handleError(ctx, span, err, "failed to sync orders", slog.String("session.id", sess.ID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	s.logInfo(ctx, "orders synced", slog.String("session.id", sess.ID), slog.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) List(ctx context.Context, sess session.Session, criteria domain.Criteria) (domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.List", trace.WithAttributes(
		attribute.String("session.id", sess.ID),
		attribute.Bool("filter.active", criteria.Active()),
	))
	defer span.End()

	listing, err := s.inner.List(ctx, sess, criteria)
	if err != nil {
		return domain.Listing{}, s.handleError(ctx, span, err, "failed to list orders", slog.String("session.id", sess.ID))
	}
	span.SetAttributes(attribute.String("listing.state", string(listing.State)), attribute.Int("orders.count", len(listing.Orders)))
	return listing, nil
}

func (s *Service) Get(ctx context.Context, sess session.Session, id string) (domain.EnrichedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := s.inner.Get(ctx, sess, id)
	if err != nil {
		return domain.EnrichedOrder{}, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return order, nil
}

func (s *Service) Create(ctx context.Context, sess session.Session, form domain.OrderForm) (domain.WorkOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Create", trace.WithAttributes(
		attribute.String("session.id", sess.ID),
		attribute.String("order.activity", string(form.Activity)),
		attribute.String("order.priority", string(form.Priority)),
	))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("session.id", sess.ID), slog.String("client.id", form.ClientID.String()))
	order, err := s.inner.Create(ctx, sess, form)
	if err != nil {
		return domain.WorkOrder{}, s.handleError(ctx, span, err, "failed to create order", slog.String("session.id", sess.ID))
	}
	s.metrics.recordCreated(ctx, order.Activity)
	s.logInfo(ctx, "order created", slog.String("order.id", order.ID.String()), slog.String("order.number", order.OrderNumber.String()))
	return order, nil
}

func (s *Service) Submit(ctx context.Context, sess session.Session, form domain.OrderForm) (ports.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Submit", trace.WithAttributes(attribute.String("session.id", sess.ID)))
	defer span.End()

	sub, err := s.inner.Submit(ctx, sess, form)
	if err != nil {
		return ports.Submission{}, s.handleError(ctx, span, err, "failed to submit order", slog.String("session.id", sess.ID))
	}
	s.logInfo(ctx, "order submitted", slog.String("order.id", sub.ID.String()), slog.String("order.scheduled_at", sub.ScheduledAt))
	return sub, nil
}

func (s *Service) Record(ctx context.Context, sess session.Session, form domain.OrderForm, sub ports.Submission) (domain.WorkOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Record", trace.WithAttributes(attribute.String("order.id", sub.ID.String())))
	defer span.End()

	order, err := s.inner.Record(ctx, sess, form, sub)
	if err != nil {
		return domain.WorkOrder{}, s.handleError(ctx, span, err, "failed to record order", slog.String("order.id", sub.ID.String()))
	}
	s.metrics.recordCreated(ctx, order.Activity)
	s.logInfo(ctx, "order recorded", slog.String("order.id", order.ID.String()), slog.String("order.number", order.OrderNumber.String()))
	return order, nil
}

func (s *Service) Update(ctx context.Context, sess session.Session, id string, edit domain.OrderEdit) (domain.WorkOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Update", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", string(edit.Status)),
	))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.String("order.id", id), slog.String("status", string(edit.Status)))
	order, err := s.inner.Update(ctx, sess, id, edit)
	if err != nil {
		return domain.WorkOrder{}, s.handleError(ctx, span, err, "failed to update order", slog.String("order.id", id))
	}
	s.metrics.recordUpdated(ctx, order.Status)
	return order, nil
}

func (s *Service) Delete(ctx context.Context, sess session.Session, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", id))
	if err := s.inner.Delete(ctx, sess, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", id))
	return nil
}

func (s *Service) NextOrderNumber(ctx context.Context, sess session.Session) (string, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.NextOrderNumber")
	defer span.End()

	next, err := s.inner.NextOrderNumber(ctx, sess)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to compute next order number")
	}
	return next, nil
}

func (s *Service) Export(ctx context.Context, sess session.Session, criteria domain.Criteria, format ports.ExportFormat, w io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Export", trace.WithAttributes(attribute.String("export.format", string(format))))
	defer span.End()

	if err := s.inner.Export(ctx, sess, criteria, format, w); err != nil {
		return s.handleError(ctx, span, err, "failed to export orders", slog.String("export.format", string(format)))
	}
	s.logInfo(ctx, "orders exported", slog.String("session.id", sess.ID), slog.String("export.format", string(format)))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	ordersUpdated metric.Int64Counter
	ordersDeleted metric.Int64Counter
	syncFailures  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of work orders created"))
	updated, _ := m.Int64Counter("orders.service.orders_updated", metric.WithDescription("Number of work orders updated"))
	deleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of work orders deleted"))
	syncFailures, _ := m.Int64Counter("orders.service.sync_failures", metric.WithDescription("Number of failed order listings"))
	return serviceMetrics{ordersCreated: created, ordersUpdated: updated, ordersDeleted: deleted, syncFailures: syncFailures}
}

func (m serviceMetrics) recordCreated(ctx context.Context, activity domain.Activity) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.activity", string(activity))))
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status domain.Status) {
	if m.ordersUpdated != nil {
		m.ordersUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordSyncFailure(ctx context.Context) {
	if m.syncFailures != nil {
		m.syncFailures.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
