// Package cache keeps a session's clients in the key/value cache.
package cache

import (
	"context"
	"log/slog"

	"github.com/telconova/portal/internal/domains/clients/domain"
	"github.com/telconova/portal/internal/domains/clients/ports"
	"github.com/telconova/portal/internal/platform/kvstore"
)

type Repository struct {
	clients *kvstore.Collection[domain.Client]
}

func NewRepository(store kvstore.Store, logger *slog.Logger) *Repository {
	return &Repository{clients: kvstore.NewCollection[domain.Client](store, kvstore.KeyClients, logger)}
}

func (r *Repository) Load(ctx context.Context, namespace string) ([]domain.Client, error) {
	return r.clients.Load(ctx, namespace)
}

func (r *Repository) Replace(ctx context.Context, namespace string, clients []domain.Client) error {
	return r.clients.Replace(ctx, namespace, clients)
}

var _ ports.Repository = (*Repository)(nil)
