package ports

import (
	"context"
	"time"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/shared/jsonval"
)

// CreateRequest is what the backend needs to open an order.
type CreateRequest struct {
	ClientID    jsonval.Value
	Activity    domain.Activity
	Priority    domain.Priority
	Description string
	ScheduledAt time.Time
}

// Gateway talks to the orders resource of the backend. Implementations wrap
// transport failures in ErrUpstream, rejected tokens in ErrUnauthenticated and
// undecodable replies in ErrMalformedResponse.
type Gateway interface {
	// ListOrders returns the decoded orders plus the items that were skipped.
	ListOrders(ctx context.Context, token string) ([]domain.WorkOrder, []error, error)
	// CreateOrder returns the backend identifier, null when none was sent back.
	CreateOrder(ctx context.Context, token string, req CreateRequest) (jsonval.Value, error)
	UpdateOrder(ctx context.Context, token, id string, edit domain.OrderEdit) error
	DeleteOrder(ctx context.Context, token, id string) error
}
