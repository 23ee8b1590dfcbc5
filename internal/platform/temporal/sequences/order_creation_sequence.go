package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/telconova/portal/internal/domains/orders/domain"
	orderactivities "github.com/telconova/portal/internal/platform/temporal/activities/orders"
)

// RunOrderCreationSequence submits the order to the backend once, then
// records it in the session cache.
func RunOrderCreationSequence(ctx workflow.Context, input orderactivities.SubmitOrderInput) (*domain.WorkOrder, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order creation sequence started", "sessionId", input.SessionID)
	// The backend call is never retried; a second POST would open a second order.
	submitOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	recordOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	record := orderactivities.RecordOrderInput{SessionID: input.SessionID, Form: input.Form}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, submitOptions), orderactivities.SubmitOrderActivityName, input).Get(ctx, &record.Submission)
	if err != nil {
		logger.Error("order creation sequence submit failed", "sessionId", input.SessionID, "error", err)
		return nil, err
	}
	logger.Info("order creation sequence submitted", "sessionId", input.SessionID, "orderId", record.Submission.ID.String())

	var order domain.WorkOrder
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, recordOptions), orderactivities.RecordOrderActivityName, record).Get(ctx, &order); err != nil {
		logger.Error("order creation sequence record failed", "sessionId", input.SessionID, "error", err)
		return nil, err
	}
	logger.Info("order creation sequence recorded", "sessionId", input.SessionID, "orderNumber", order.OrderNumber.String())
	return &order, nil
}
