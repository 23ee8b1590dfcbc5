package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/telconova/portal/internal/domains/orders/domain"
	orderactivities "github.com/telconova/portal/internal/platform/temporal/activities/orders"
	"github.com/telconova/portal/internal/platform/temporal/sequences"
)

const (
	// OrderCreationWorkflowName is the public identifier for registering the workflow.
	OrderCreationWorkflowName = "orders.workflows.Creation"
	// OrderCreationTaskQueue is the queue consumed by the worker processing order workflows.
	OrderCreationTaskQueue = "ORDER_CREATION"
)

// OrderCreationWorkflowInput carries the session identifier, never its token.
type OrderCreationWorkflowInput struct {
	SessionID string
	Form      domain.OrderForm
	TraceID   string
}

// OrderCreationWorkflow submits a work order and records it in the session cache.
func OrderCreationWorkflow(ctx workflow.Context, input OrderCreationWorkflowInput) (*domain.WorkOrder, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderCreationWorkflow started", withTraceID(input.TraceID, "sessionId", input.SessionID)...)
	order, err := sequences.RunOrderCreationSequence(ctx, orderactivities.SubmitOrderInput{SessionID: input.SessionID, Form: input.Form})
	if err != nil {
		logger.Error("OrderCreationWorkflow failed", withTraceID(input.TraceID, "sessionId", input.SessionID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderCreationWorkflow completed", withTraceID(input.TraceID, "orderNumber", order.OrderNumber.String())...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
