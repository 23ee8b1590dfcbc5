package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns a service error into a problem. ok reports whether the
// mapper recognised err.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes problem+json bodies and aborts the gin chain. Mappers run
// in order on RespondError; unmatched errors that are not already a
// ProblemDetail become a 500.
type Responder struct {
	BaseURI string
	mappers []ErrorMapper
}

func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: strings.TrimSuffix(baseURI, "/")}
}

var DefaultResponder = NewResponder("")

// Respond fills Instance with the request path when unset. Server-side
// problems are also attached to the gin context so middleware sees them.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	if problem.Status >= 500 {
		_ = c.Error(problem)
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

func (r *Responder) RespondError(c *gin.Context, err error) {
	r.Respond(c, r.resolve(err))
}

func (r *Responder) resolve(err error) ProblemDetail {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	return ErrInternal.WithDetail(err.Error())
}

func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

// ChainedResponder is a Responder preloaded with mappers.
type ChainedResponder struct {
	*Responder
}

func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	responder := NewResponder(baseURI)
	responder.mappers = mappers
	return &ChainedResponder{Responder: responder}
}
