package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/telconova/portal/internal/domains/orders/application"
	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/domains/orders/ports"
	orderactivities "github.com/telconova/portal/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/telconova/portal/internal/platform/temporal/workflows/orders"
	"github.com/telconova/portal/internal/shared/session"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderCreationTaskQueue}
}

// CreateOrder validates locally, then runs the creation workflow and waits
// for its result.
func (o *TemporalOrderWorkflows) CreateOrder(ctx context.Context, sess session.Session, form domain.OrderForm) (domain.WorkOrder, error) {
	if o == nil || o.client == nil {
		return domain.WorkOrder{}, errors.New("temporal order workflows not configured")
	}
	if err := application.CheckCreate(sess, form); err != nil {
		return domain.WorkOrder{}, err
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("order-creation-%s-%s", sess.ID, traceComponent)
	// A replayed request for the same trace joins the run already under way
	// instead of posting the order a second time.
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderCreationWorkflow,
		orderworkflows.OrderCreationWorkflowInput{SessionID: sess.ID, Form: form, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return domain.WorkOrder{}, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var order domain.WorkOrder
	if err := run.Get(ctx, &order); err != nil {
		return domain.WorkOrder{}, unwrapWorkflowError(err)
	}
	return order, nil
}

// unwrapWorkflowError restores the sentinel the failing activity classified.
func unwrapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrorTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	case orderactivities.ErrorTypeUnauthenticated:
		return fmt.Errorf("%w: %s", ports.ErrUnauthenticated, appErr.Message())
	case orderactivities.ErrorTypeNotFound:
		return fmt.Errorf("%w: %s", ports.ErrNotFound, appErr.Message())
	case orderactivities.ErrorTypeUpstream:
		return fmt.Errorf("%w: %s", ports.ErrUpstream, appErr.Message())
	}
	return err
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) CreateOrder(ctx context.Context, sess session.Session, form domain.OrderForm) (domain.WorkOrder, error) {
	if o == nil || o.service == nil {
		return domain.WorkOrder{}, errors.New("inline order workflows not configured")
	}
	return o.service.Create(ctx, sess, form)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
