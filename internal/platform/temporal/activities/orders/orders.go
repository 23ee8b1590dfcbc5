package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/telconova/portal/internal/domains/orders/domain"
	ordersports "github.com/telconova/portal/internal/domains/orders/ports"
)

const (
	// SubmitOrderActivityName posts a new order to the backend.
	SubmitOrderActivityName = "orders.activities.SubmitOrder"
	// RecordOrderActivityName appends a submitted order to the session cache.
	RecordOrderActivityName = "orders.activities.RecordOrder"
)

// Application error types carried across the workflow boundary.
const (
	ErrorTypeInvalidInput    = "InvalidInput"
	ErrorTypeUnauthenticated = "Unauthenticated"
	ErrorTypeNotFound        = "NotFound"
	ErrorTypeUpstream        = "Upstream"
)

type SubmitOrderInput struct {
	SessionID string
	Form      domain.OrderForm
}

type RecordOrderInput struct {
	SessionID  string
	Form       domain.OrderForm
	Submission ordersports.Submission
}

// Activities groups the activities of the orders bounded context.
type Activities struct {
	service  ordersports.Service
	sessions ordersports.SessionResolver
	// invalidInput matches the application's validation error.
	invalidInput error
}

// NewActivities wires the orders service and a session resolver. invalidInput
// is the sentinel the service wraps validation failures in.
func NewActivities(service ordersports.Service, sessions ordersports.SessionResolver, invalidInput error) *Activities {
	return &Activities{service: service, sessions: sessions, invalidInput: invalidInput}
}

func (a *Activities) SubmitOrder(ctx context.Context, input SubmitOrderInput) (ordersports.Submission, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil || a.sessions == nil {
		logger.Error("submit order activity not initialized", "sessionId", input.SessionID)
		return ordersports.Submission{}, errors.New("submit order activity not initialized")
	}
	logger.Info("SubmitOrder activity started", "sessionId", input.SessionID)
	sess, err := a.sessions.Resolve(ctx, input.SessionID)
	if err != nil {
		logger.Error("SubmitOrder failed to resolve session", "sessionId", input.SessionID, "error", err)
		return ordersports.Submission{}, a.classify(err)
	}
	sub, err := a.service.Submit(ctx, sess, input.Form)
	if err != nil {
		logger.Error("SubmitOrder activity failed", "sessionId", input.SessionID, "error", err)
		return ordersports.Submission{}, a.classify(err)
	}
	logger.Info("SubmitOrder activity completed", "sessionId", input.SessionID, "orderId", sub.ID.String())
	return sub, nil
}

func (a *Activities) RecordOrder(ctx context.Context, input RecordOrderInput) (domain.WorkOrder, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil || a.sessions == nil {
		logger.Error("record order activity not initialized", "sessionId", input.SessionID)
		return domain.WorkOrder{}, errors.New("record order activity not initialized")
	}
	logger.Info("RecordOrder activity started", "sessionId", input.SessionID, "orderId", input.Submission.ID.String())
	sess, err := a.sessions.Resolve(ctx, input.SessionID)
	if err != nil {
		logger.Error("RecordOrder failed to resolve session", "sessionId", input.SessionID, "error", err)
		return domain.WorkOrder{}, a.classify(err)
	}
	order, err := a.service.Record(ctx, sess, input.Form, input.Submission)
	if err != nil {
		logger.Error("RecordOrder activity failed", "sessionId", input.SessionID, "error", err)
		return domain.WorkOrder{}, err
	}
	logger.Info("RecordOrder activity completed", "sessionId", input.SessionID, "orderNumber", order.OrderNumber.String())
	return order, nil
}

// classify turns domain failures into non-retryable application errors whose
// type survives the trip back to the caller. Anything else stays retryable.
func (a *Activities) classify(err error) error {
	var errType string
	switch {
	case a.invalidInput != nil && errors.Is(err, a.invalidInput):
		errType = ErrorTypeInvalidInput
	case errors.Is(err, ordersports.ErrUnauthenticated):
		errType = ErrorTypeUnauthenticated
	case errors.Is(err, ordersports.ErrNotFound):
		errType = ErrorTypeNotFound
	case errors.Is(err, ordersports.ErrUpstream),
		errors.Is(err, ordersports.ErrMalformedResponse):
		errType = ErrorTypeUpstream
	default:
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errType, err)
}
