package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/telconova/portal/internal/domains/clients/domain"
	"github.com/telconova/portal/internal/domains/clients/ports"
	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/notify"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

const (
	MsgLoadFailed   = "No se pudieron cargar los clientes."
	MsgMissingToken = "No se encontró el token de autenticación. Inicia sesión nuevamente."
	MsgSendFailed   = "No se pudo enviar el cliente al servidor"
	MsgCreated      = "Cliente creado exitosamente"
	MsgDuplicate    = "Ya existe un cliente con esa identificación"
)

// Service orchestrates the client use cases over the session cache.
type Service struct {
	repo     ports.Repository
	gateway  ports.Gateway
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces uuid.NewString for locally assigned ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(repo ports.Repository, gateway ports.Gateway, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		gateway:  gateway,
		notifier: notify.Nop{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Sync replaces the cached clients with the backend's. Without a token the
// cached list is returned untouched.
func (s *Service) Sync(ctx context.Context, sess session.Session) ([]domain.Client, error) {
	if !sess.HasToken() {
		return s.repo.Load(ctx, sess.Namespace())
	}
	clients, err := s.gateway.ListClients(ctx, sess.Token)
	if err != nil {
		s.notify(ctx, sess, notify.LevelError, MsgLoadFailed)
		return nil, err
	}
	if err := s.repo.Replace(ctx, sess.Namespace(), clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *Service) List(ctx context.Context, sess session.Session) ([]domain.Client, error) {
	return s.repo.Load(ctx, sess.Namespace())
}

func (s *Service) Search(ctx context.Context, sess session.Session, name, identification string) (domain.SearchResult, error) {
	clients, err := s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return domain.SearchResult{}, err
	}
	result := domain.Search(clients, name, identification)
	switch {
	case result.Found:
		s.notify(ctx, sess, notify.LevelSuccess, result.Message)
	case result.Message != "":
		s.notify(ctx, sess, notify.LevelInfo, result.Message)
	}
	return result, nil
}

func (s *Service) Options(ctx context.Context, sess session.Session) ([]domain.Option, error) {
	clients, err := s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return nil, err
	}
	return domain.Options(clients), nil
}

// Create validates the form, sends it to the backend and appends the client
// to the cache. The backend's id is kept when it returns one; otherwise the
// client gets a local UUID. Uniqueness is checked again once the id is known.
func (s *Service) Create(ctx context.Context, sess session.Session, form validation.ClientForm) (domain.Client, error) {
	if err := form.Validate().Err(); err != nil {
		return domain.Client{}, mapError(err)
	}
	clients, err := s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return domain.Client{}, err
	}
	now := s.now().UTC().Format(time.RFC3339Nano)
	client := domain.FromForm(form, jsonval.Value{}, now)
	if err := domain.CheckUnique(clients, client); err != nil {
		s.notify(ctx, sess, notify.LevelError, MsgDuplicate)
		return domain.Client{}, mapError(err)
	}
	if !sess.HasToken() {
		s.notify(ctx, sess, notify.LevelError, MsgMissingToken)
		return domain.Client{}, ports.ErrUnauthenticated
	}
	id, err := s.gateway.CreateClient(ctx, sess.Token, client)
	if err != nil {
		s.notify(ctx, sess, notify.LevelError, MsgSendFailed)
		return domain.Client{}, err
	}
	if !id.IsScalar() {
		id = jsonval.Text(s.newID())
	}
	client.ID = id
	// The cache may have changed while the backend call was in flight, and
	// only now is the id known.
	clients, err = s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return domain.Client{}, err
	}
	if err := domain.CheckUnique(clients, client); err != nil {
		s.notify(ctx, sess, notify.LevelError, MsgDuplicate)
		return domain.Client{}, mapError(err)
	}
	if err := s.repo.Replace(ctx, sess.Namespace(), append(clients, client)); err != nil {
		return domain.Client{}, err
	}
	s.notify(ctx, sess, notify.LevelSuccess, MsgCreated)
	return client, nil
}

func (s *Service) notify(ctx context.Context, sess session.Session, level notify.Level, msg string) {
	s.notifier.Notify(ctx, notify.NewNotice(sess.ID, level, msg))
}

var _ ports.Service = (*Service)(nil)
