package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/telconova/portal/internal/domains/auth/domain"
	"github.com/telconova/portal/internal/domains/auth/ports"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

const tracerName = "github.com/telconova/portal/internal/domains/auth/adapters/observability/service"

// Service decorates the auth service. Credentials and tokens are never
// logged or put on spans.
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

func (s *Service) Login(ctx context.Context, sessionID string, form validation.LoginForm) (ports.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	result, err := s.inner.Login(ctx, sessionID, form)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		return ports.LoginResult{}, s.handleError(ctx, span, err, "login failed", slog.String("session.id", sessionID))
	}
	s.metrics.recordLogin(ctx, true)
	span.SetAttributes(attribute.String("session.id", result.Session.ID))
	s.logInfo(ctx, "user logged in", slog.String("session.id", result.Session.ID), slog.String("user.id", result.Session.UserID.String()))
	return result, nil
}

func (s *Service) Register(ctx context.Context, form validation.RegisterForm) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if err := s.inner.Register(ctx, form); err != nil {
		return s.handleError(ctx, span, err, "registration failed")
	}
	s.logInfo(ctx, "user registered")
	return nil
}

func (s *Service) Logout(ctx context.Context, sess session.Session) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Logout", trace.WithAttributes(attribute.String("session.id", sess.ID)))
	defer span.End()

	if err := s.inner.Logout(ctx, sess); err != nil {
		return s.handleError(ctx, span, err, "logout failed", slog.String("session.id", sess.ID))
	}
	s.logInfo(ctx, "user logged out", slog.String("session.id", sess.ID))
	return nil
}

func (s *Service) Resolve(ctx context.Context, sessionID string) (session.Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Resolve")
	defer span.End()

	sess, err := s.inner.Resolve(ctx, sessionID)
	if err != nil {
		return session.Session{}, s.handleError(ctx, span, err, "failed to resolve session", slog.String("session.id", sessionID))
	}
	span.SetAttributes(attribute.Bool("session.authenticated", sess.HasToken()))
	return sess, nil
}

func (s *Service) CurrentUser(ctx context.Context, sess session.Session) (domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.CurrentUser")
	defer span.End()

	user, err := s.inner.CurrentUser(ctx, sess)
	if err != nil {
		return domain.User{}, s.handleError(ctx, span, err, "failed to load current user", slog.String("session.id", sess.ID))
	}
	return user, nil
}

func (s *Service) VerifyCode(ctx context.Context, code string) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.VerifyCode")
	defer span.End()

	if err := s.inner.VerifyCode(ctx, code); err != nil {
		return s.handleError(ctx, span, err, "verification code rejected")
	}
	return nil
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
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	logins metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("auth.service.logins", metric.WithDescription("Number of login attempts"))
	return serviceMetrics{logins: logins}
}

func (m serviceMetrics) recordLogin(ctx context.Context, ok bool) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("login.success", ok)))
	}
}

var _ ports.Service = (*Service)(nil)
