package ports

import (
	"context"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/shared/session"
)

// WorkflowOrchestrator runs order creation, inline or durably.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, sess session.Session, form domain.OrderForm) (domain.WorkOrder, error)
}

// SessionResolver rebuilds a session from its identifier. Durable workflows
// carry only the identifier, never the token.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (session.Session, error)
}
