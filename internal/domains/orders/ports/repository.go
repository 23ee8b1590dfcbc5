package ports

import (
	"context"

	"github.com/telconova/portal/internal/domains/orders/domain"
)

// Repository holds a session's cached order collection. Writes replace the
// whole collection. Load reports cached=false when nothing usable is stored
// for the namespace yet.
type Repository interface {
	Load(ctx context.Context, namespace string) (orders []domain.WorkOrder, cached bool, err error)
	Replace(ctx context.Context, namespace string, orders []domain.WorkOrder) error
}

// ClientDirectory exposes the session's cached clients for enrichment.
type ClientDirectory interface {
	Refs(ctx context.Context, namespace string) ([]domain.ClientRef, error)
}
