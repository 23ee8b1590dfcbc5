package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/telconova/portal/internal/domains/clients/domain"
	"github.com/telconova/portal/internal/domains/clients/ports"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

const tracerName = "github.com/telconova/portal/internal/domains/clients/adapters/observability/service"

// Service decorates the clients service with tracing, logging, and metrics.
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

func (s *Service) Sync(ctx context.Context, sess session.Session) ([]domain.Client, error) {
	ctx, span := s.tracer.Start(ctx, "ClientsService.Sync", trace.WithAttributes(attribute.String("session.id", sess.ID)))
	defer span.End()

	clients, err := s.inner.Sync(ctx, sess)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to sync clients", slog.String("session.id", sess.ID))
	}
	span.SetAttributes(attribute.Int("clients.count", len(clients)))
	s.logInfo(ctx, "clients synced", slog.String("session.id", sess.ID), slog.Int("clients.count", len(clients)))
	return clients, nil
}

func (s *Service) List(ctx context.Context, sess session.Session) ([]domain.Client, error) {
	ctx, span := s.tracer.Start(ctx, "ClientsService.List")
	defer span.End()

	clients, err := s.inner.List(ctx, sess)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list clients", slog.String("session.id", sess.ID))
	}
	return clients, nil
}

func (s *Service) Search(ctx context.Context, sess session.Session, name, identification string) (domain.SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "ClientsService.Search")
	defer span.End()

	result, err := s.inner.Search(ctx, sess, name, identification)
	if err != nil {
		return domain.SearchResult{}, s.handleError(ctx, span, err, "failed to search clients", slog.String("session.id", sess.ID))
	}
	span.SetAttributes(attribute.Bool("search.found", result.Found))
	s.metrics.recordSearch(ctx, result.Found)
	return result, nil
}

func (s *Service) Options(ctx context.Context, sess session.Session) ([]domain.Option, error) {
	ctx, span := s.tracer.Start(ctx, "ClientsService.Options")
	defer span.End()

	opts, err := s.inner.Options(ctx, sess)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build client options", slog.String("session.id", sess.ID))
	}
	return opts, nil
}

func (s *Service) Create(ctx context.Context, sess session.Session, form validation.ClientForm) (domain.Client, error) {
	ctx, span := s.tracer.Start(ctx, "ClientsService.Create", trace.WithAttributes(attribute.String("session.id", sess.ID)))
	defer span.End()

	s.logInfo(ctx, "creating client", slog.String("session.id", sess.ID))
	client, err := s.inner.Create(ctx, sess, form)
	if err != nil {
		return domain.Client{}, s.handleError(ctx, span, err, "failed to create client", slog.String("session.id", sess.ID))
	}
	s.metrics.recordCreated(ctx)
	span.SetAttributes(attribute.String("client.id", client.ID.String()))
	s.logInfo(ctx, "client created", slog.String("client.id", client.ID.String()))
	return client, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	clientsCreated metric.Int64Counter
	searches       metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("clients.service.clients_created", metric.WithDescription("Number of clients created"))
	searches, _ := m.Int64Counter("clients.service.searches", metric.WithDescription("Number of client searches"))
	return serviceMetrics{clientsCreated: created, searches: searches}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.clientsCreated != nil {
		m.clientsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordSearch(ctx context.Context, found bool) {
	if m.searches != nil {
		m.searches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("search.found", found)))
	}
}

var _ ports.Service = (*Service)(nil)
