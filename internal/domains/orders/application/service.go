package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/domains/orders/ports"
	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/notify"
	"github.com/telconova/portal/internal/shared/session"
)

// Service orchestrates the work-order use cases over the session cache and
// the backend gateway.
type Service struct {
	repo     ports.Repository
	clients  ports.ClientDirectory
	gateway  ports.Gateway
	exporter ports.Exporter
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithExporter(e ports.Exporter) Option {
	return func(s *Service) {
		s.exporter = e
	}
}

func NewService(repo ports.Repository, clients ports.ClientDirectory, gateway ports.Gateway, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		clients:  clients,
		gateway:  gateway,
		notifier: notify.Nop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// syncFailure picks the notice for a failed listing fetch. Only transport
// failures read as a connection error.
func syncFailure(err error) string {
	switch {
	case errors.Is(err, ports.ErrUpstream):
		return MsgConnectionError
	case errors.Is(err, ports.ErrUnauthenticated):
		return MsgSessionExpired
	case errors.Is(err, ports.ErrMalformedResponse):
		return MsgBadResponse
	}
	return MsgLoadFailed
}

// Sync refreshes the cached orders from the backend. Without a token nothing
// is fetched and the result is empty. A failed fetch leaves the cache as it
// was.
func (s *Service) Sync(ctx context.Context, sess session.Session) ([]domain.WorkOrder, error) {
	if !sess.HasToken() {
		return []domain.WorkOrder{}, nil
	}
	orders, skipped, err := s.gateway.ListOrders(ctx, sess.Token)
	if err != nil {
		s.notify(ctx, sess, notify.LevelError, syncFailure(err))
		return nil, err
	}
	for _, itemErr := range skipped {
		s.warn(ctx, "skipping undecodable order", slog.String("session.id", sess.ID), slog.String("error", itemErr.Error()))
	}
	if err := s.repo.Replace(ctx, sess.Namespace(), orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// List filters the cached orders, enriched with the cached clients.
func (s *Service) List(ctx context.Context, sess session.Session, criteria domain.Criteria) (domain.Listing, error) {
	orders, cached, err := s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return domain.Listing{}, err
	}
	if !cached {
		return domain.UnloadedListing(), nil
	}
	enriched, err := s.enrich(ctx, sess, orders)
	if err != nil {
		return domain.Listing{}, err
	}
	return domain.NewListing(enriched, criteria), nil
}

func (s *Service) Get(ctx context.Context, sess session.Session, id string) (domain.EnrichedOrder, error) {
	orders, _, err := s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return domain.EnrichedOrder{}, err
	}
	idx, ok := domain.FindByID(orders, id)
	if !ok {
		s.notify(ctx, sess, notify.LevelError, MsgNotFound)
		return domain.EnrichedOrder{}, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}
	refs, err := s.clients.Refs(ctx, sess.Namespace())
	if err != nil {
		return domain.EnrichedOrder{}, err
	}
	return domain.Enrich(orders[idx], refs), nil
}

func (s *Service) Create(ctx context.Context, sess session.Session, form domain.OrderForm) (domain.WorkOrder, error) {
	sub, err := s.Submit(ctx, sess, form)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	return s.Record(ctx, sess, form, sub)
}

// CheckCreate runs the checks Submit performs before calling the backend.
func CheckCreate(sess session.Session, form domain.OrderForm) error {
	if err := form.Validate().Err(); err != nil {
		return mapError(err)
	}
	if !sess.HasToken() {
		return ports.ErrUnauthenticated
	}
	return nil
}

// Submit posts the order to the backend. The order is scheduled one minute
// from now.
func (s *Service) Submit(ctx context.Context, sess session.Session, form domain.OrderForm) (ports.Submission, error) {
	if err := CheckCreate(sess, form); err != nil {
		if errors.Is(err, ports.ErrUnauthenticated) {
			s.notify(ctx, sess, notify.LevelError, MsgMissingToken)
		}
		return ports.Submission{}, err
	}
	scheduled := s.now().Add(time.Minute).UTC()
	id, err := s.gateway.CreateOrder(ctx, sess.Token, ports.CreateRequest{
		ClientID:    form.ClientID,
		Activity:    form.Activity,
		Priority:    form.Priority,
		Description: form.Description,
		ScheduledAt: scheduled,
	})
	if err != nil {
		s.notify(ctx, sess, notify.LevelError, MsgCreateFailed)
		return ports.Submission{}, err
	}
	return ports.Submission{ID: id, ScheduledAt: scheduled.Format(time.RFC3339)}, nil
}

// Record appends the submitted order to the cache. Recording the same backend
// identifier twice returns the order already cached.
func (s *Service) Record(ctx context.Context, sess session.Session, form domain.OrderForm, sub ports.Submission) (domain.WorkOrder, error) {
	orders, _, err := s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return domain.WorkOrder{}, err
	}
	if sub.ID.IsScalar() {
		if idx, ok := domain.FindByID(orders, sub.ID.String()); ok {
			return orders[idx], nil
		}
	}
	now := s.now()
	id := sub.ID
	if !id.IsScalar() {
		id = jsonval.Number(now.UnixMilli())
	}
	number := domain.NextOrderNumber(len(orders))
	order := domain.WorkOrder{
		ID:                id,
		OrderNumber:       jsonval.Text(number),
		ClientID:          form.ClientID,
		Activity:          form.Activity,
		Priority:          form.Priority,
		Status:            domain.StatusOpen,
		Description:       form.Description,
		ResponsibleUserID: sess.UserID,
		CreatedAt:         domain.Timestamp(now),
		UpdatedAt:         domain.Timestamp(now),
	}
	if err := s.repo.Replace(ctx, sess.Namespace(), append(orders, order)); err != nil {
		return domain.WorkOrder{}, err
	}
	s.notify(ctx, sess, notify.LevelSuccess, fmt.Sprintf(MsgCreated, number))
	return order, nil
}

func (s *Service) Update(ctx context.Context, sess session.Session, id string, edit domain.OrderEdit) (domain.WorkOrder, error) {
	if err := edit.Validate(); err != nil {
		return domain.WorkOrder{}, mapError(err)
	}
	if !sess.HasToken() {
		s.notify(ctx, sess, notify.LevelError, MsgEditNoToken)
		return domain.WorkOrder{}, ports.ErrUnauthenticated
	}
	orders, idx, err := s.locate(ctx, sess, id)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	if err := s.gateway.UpdateOrder(ctx, sess.Token, id, edit); err != nil {
		s.notify(ctx, sess, notify.LevelError, MsgUpdateFailed+err.Error())
		return domain.WorkOrder{}, err
	}
	updated := edit.Apply(orders[idx], s.now())
	orders[idx] = updated
	if err := s.repo.Replace(ctx, sess.Namespace(), orders); err != nil {
		return domain.WorkOrder{}, err
	}
	s.notify(ctx, sess, notify.LevelSuccess, MsgUpdated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, sess session.Session, id string) error {
	if !sess.HasToken() {
		s.notify(ctx, sess, notify.LevelError, MsgEditNoToken)
		return ports.ErrUnauthenticated
	}
	orders, idx, err := s.locate(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.gateway.DeleteOrder(ctx, sess.Token, id); err != nil {
		s.notify(ctx, sess, notify.LevelError, MsgDeleteFailed+err.Error())
		return err
	}
	if err := s.repo.Replace(ctx, sess.Namespace(), slices.Delete(orders, idx, idx+1)); err != nil {
		return err
	}
	s.notify(ctx, sess, notify.LevelSuccess, MsgDeleted)
	return nil
}

func (s *Service) NextOrderNumber(ctx context.Context, sess session.Session) (string, error) {
	orders, _, err := s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return "", err
	}
	return domain.NextOrderNumber(len(orders)), nil
}

// Export writes the filtered listing in the requested format.
func (s *Service) Export(ctx context.Context, sess session.Session, criteria domain.Criteria, format ports.ExportFormat, w io.Writer) error {
	if s.exporter == nil {
		return errors.New("order export not configured")
	}
	listing, err := s.List(ctx, sess, criteria)
	if err != nil {
		return err
	}
	return s.exporter.Write(w, format, listing.Orders)
}

func (s *Service) locate(ctx context.Context, sess session.Session, id string) ([]domain.WorkOrder, int, error) {
	orders, _, err := s.repo.Load(ctx, sess.Namespace())
	if err != nil {
		return nil, -1, err
	}
	idx, ok := domain.FindByID(orders, id)
	if !ok {
		s.notify(ctx, sess, notify.LevelError, MsgNotFound)
		return nil, -1, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}
	return orders, idx, nil
}

func (s *Service) enrich(ctx context.Context, sess session.Session, orders []domain.WorkOrder) ([]domain.EnrichedOrder, error) {
	refs, err := s.clients.Refs(ctx, sess.Namespace())
	if err != nil {
		return nil, err
	}
	return domain.EnrichAll(orders, refs), nil
}

func (s *Service) notify(ctx context.Context, sess session.Session, level notify.Level, msg string) {
	s.notifier.Notify(ctx, notify.NewNotice(sess.ID, level, msg))
}

func (s *Service) warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
