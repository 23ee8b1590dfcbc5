package ports

import (
	"context"
	"io"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/session"
)

// Submission is the outcome of posting a new order to the backend.
type Submission struct {
	ID          jsonval.Value `json:"id"`
	ScheduledAt string        `json:"scheduledAt"`
}

// Service exposes the work-order use cases to transports and workflows.
type Service interface {
	Sync(ctx context.Context, sess session.Session) ([]domain.WorkOrder, error)
	List(ctx context.Context, sess session.Session, criteria domain.Criteria) (domain.Listing, error)
	Get(ctx context.Context, sess session.Session, id string) (domain.EnrichedOrder, error)
	// Create validates, submits and records in one call.
	Create(ctx context.Context, sess session.Session, form domain.OrderForm) (domain.WorkOrder, error)
	// Submit and Record are the two halves of Create, run separately by the
	// durable workflow.
	Submit(ctx context.Context, sess session.Session, form domain.OrderForm) (Submission, error)
	Record(ctx context.Context, sess session.Session, form domain.OrderForm, sub Submission) (domain.WorkOrder, error)
	Update(ctx context.Context, sess session.Session, id string, edit domain.OrderEdit) (domain.WorkOrder, error)
	Delete(ctx context.Context, sess session.Session, id string) error
	NextOrderNumber(ctx context.Context, sess session.Session) (string, error)
	Export(ctx context.Context, sess session.Session, criteria domain.Criteria, format ExportFormat, w io.Writer) error
}
