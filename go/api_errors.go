package portalserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authapp "github.com/telconova/portal/internal/domains/auth/application"
	authports "github.com/telconova/portal/internal/domains/auth/ports"
	clientsapp "github.com/telconova/portal/internal/domains/clients/application"
	clientsports "github.com/telconova/portal/internal/domains/clients/ports"
	ordersapp "github.com/telconova/portal/internal/domains/orders/application"
	ordersports "github.com/telconova/portal/internal/domains/orders/ports"
	apierrors "github.com/telconova/portal/internal/shared/errors"
	"github.com/telconova/portal/internal/shared/validation"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondBindError answers a request whose body or query failed to bind.
// Rule failures list their fields; malformed input is a plain 400.
func respondBindError(c *gin.Context, err error) {
	if fields, ok := validation.FromError(err); ok {
		respondProblem(c, apierrors.NewValidationProblem(fields))
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondError renders err as an RFC 7807 response with the given status.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	case http.StatusBadGateway:
		problem = apierrors.ErrBadGateway.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// serviceErrorResponder maps the sentinels of every bounded context.
var serviceErrorResponder = apierrors.NewChainedResponder("",
	validationProblem,
	loginProblem,
	sentinelProblem,
)

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	serviceErrorResponder.RespondError(c, err)
}

func validationProblem(err error) (apierrors.ProblemDetail, bool) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return apierrors.NewValidationProblem(fields), true
	}
	return apierrors.ProblemDetail{}, false
}

// loginProblem surfaces the user-facing message of a failed login.
func loginProblem(err error) (apierrors.ProblemDetail, bool) {
	var loginErr *authapp.LoginError
	if !errors.As(err, &loginErr) {
		return apierrors.ProblemDetail{}, false
	}
	if errors.Is(err, authports.ErrUpstream) {
		return apierrors.ErrBadGateway.WithDetail(loginErr.Message), true
	}
	return apierrors.ErrUnauthorized.WithDetail(loginErr.Message), true
}

func sentinelProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, clientsapp.ErrInvalidInput),
		errors.Is(err, authapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrUnsupportedFormat):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, authports.ErrInvalidCode):
		return apierrors.ErrBadRequest.WithDetail(authapp.MsgInvalidCode), true
	case errors.Is(err, ordersports.ErrUnauthenticated),
		errors.Is(err, clientsports.ErrUnauthenticated),
		errors.Is(err, authports.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(ordersapp.MsgNotFound), true
	case errors.Is(err, clientsports.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrUpstream),
		errors.Is(err, ordersports.ErrMalformedResponse),
		errors.Is(err, clientsports.ErrUpstream),
		errors.Is(err, authports.ErrUpstream),
		errors.Is(err, authports.ErrRejected):
		return apierrors.ErrBadGateway.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
