// Package cache stores the orders context's collections in the session
// key/value cache.
package cache

import (
	"context"
	"log/slog"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/domains/orders/ports"
	"github.com/telconova/portal/internal/platform/kvstore"
	"github.com/telconova/portal/internal/shared/jsonval"
)

// Repository keeps work orders under the telconova_work_orders key.
type Repository struct {
	orders *kvstore.Collection[domain.WorkOrder]
}

func NewRepository(store kvstore.Store, logger *slog.Logger) *Repository {
	return &Repository{orders: kvstore.NewCollection[domain.WorkOrder](store, kvstore.KeyWorkOrders, logger)}
}

func (r *Repository) Load(ctx context.Context, namespace string) ([]domain.WorkOrder, bool, error) {
	return r.orders.Lookup(ctx, namespace)
}

func (r *Repository) Replace(ctx context.Context, namespace string, orders []domain.WorkOrder) error {
	return r.orders.Replace(ctx, namespace, orders)
}

// cachedClient reads the fields of a cached client that enrichment shows.
type cachedClient struct {
	ID             jsonval.Value `json:"id"`
	Name           string        `json:"name"`
	Identification string        `json:"identification"`
	Phone          string        `json:"phone"`
}

// ClientDirectory reads the clients cached by the clients context.
type ClientDirectory struct {
	clients *kvstore.Collection[cachedClient]
}

func NewClientDirectory(store kvstore.Store, logger *slog.Logger) *ClientDirectory {
	return &ClientDirectory{clients: kvstore.NewCollection[cachedClient](store, kvstore.KeyClients, logger)}
}

func (d *ClientDirectory) Refs(ctx context.Context, namespace string) ([]domain.ClientRef, error) {
	clients, err := d.clients.Load(ctx, namespace)
	if err != nil {
		return nil, err
	}
	refs := make([]domain.ClientRef, 0, len(clients))
	for _, c := range clients {
		refs = append(refs, domain.ClientRef{ID: c.ID, Name: c.Name, Identification: c.Identification, Phone: c.Phone})
	}
	return refs, nil
}

var (
	_ ports.Repository      = (*Repository)(nil)
	_ ports.ClientDirectory = (*ClientDirectory)(nil)
)
