package ports

import (
	"context"
	"errors"

	"github.com/telconova/portal/internal/domains/clients/domain"
	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

var (
	ErrUnauthenticated = errors.New("session has no access token")
	ErrUpstream        = errors.New("backend request failed")
	ErrConflict        = errors.New("client already exists")
)

// Repository holds a session's cached client collection.
type Repository interface {
	Load(ctx context.Context, namespace string) ([]domain.Client, error)
	Replace(ctx context.Context, namespace string, clients []domain.Client) error
}

// Gateway talks to the clientes resource of the backend.
type Gateway interface {
	ListClients(ctx context.Context, token string) ([]domain.Client, error)
	// CreateClient returns the backend identifier, null when none was sent back.
	CreateClient(ctx context.Context, token string, client domain.Client) (jsonval.Value, error)
}

// Service exposes the client use cases.
type Service interface {
	Sync(ctx context.Context, sess session.Session) ([]domain.Client, error)
	List(ctx context.Context, sess session.Session) ([]domain.Client, error)
	Search(ctx context.Context, sess session.Session, name, identification string) (domain.SearchResult, error)
	Options(ctx context.Context, sess session.Session) ([]domain.Option, error)
	Create(ctx context.Context, sess session.Session, form validation.ClientForm) (domain.Client, error)
}
