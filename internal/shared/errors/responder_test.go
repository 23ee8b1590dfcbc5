package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	router := gin.New()
	router.GET("/api/orders/:orderId", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/9", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespond_SetsContentTypeAndInstance(t *testing.T) {
	rec, problem := serve(t, func(c *gin.Context) {
		Respond(c, ErrNotFound.WithDetail("Orden no encontrada"))
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "/api/orders/9", problem.Instance)
	require.Equal(t, "Orden no encontrada", problem.Detail)
	require.Equal(t, TypeNotFound, problem.Type)
}

func TestRespond_PrefixesBaseURI(t *testing.T) {
	responder := NewResponder("https://portal.telconova.co")
	_, problem := serve(t, func(c *gin.Context) {
		responder.Respond(c, ErrBadGateway)
	})
	require.Equal(t, "https://portal.telconova.co"+TypeBadGateway, problem.Type)
	require.Equal(t, http.StatusBadGateway, problem.Status)
}

func TestRespondError_PassesProblemsThroughAndDefaultsTo500(t *testing.T) {
	rec, problem := serve(t, func(c *gin.Context) {
		DefaultResponder.RespondError(c, fmt.Errorf("wrapped: %w", ErrConflict.WithDetail("dup")))
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "dup", problem.Detail)

	rec, problem = serve(t, func(c *gin.Context) {
		DefaultResponder.RespondError(c, fmt.Errorf("boom"))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "boom", problem.Detail)
}

func TestChainedResponder_FirstMatchingMapperWins(t *testing.T) {
	sentinel := fmt.Errorf("upstream down")
	responder := NewChainedResponder("",
		func(err error) (ProblemDetail, bool) { return ProblemDetail{}, false },
		func(err error) (ProblemDetail, bool) {
			if err == sentinel {
				return ErrBadGateway.WithDetail("Error de conexión"), true
			}
			return ProblemDetail{}, false
		},
		func(err error) (ProblemDetail, bool) { return ErrInternal, true },
	)
	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, sentinel) })
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "Error de conexión", problem.Detail)
}

func TestNewValidationProblem_DoesNotMutateTemplate(t *testing.T) {
	problem := NewValidationProblem(map[string]string{"email": "Email inválido"})
	require.Equal(t, http.StatusBadRequest, problem.Status)
	require.Contains(t, problem.Extensions, "fields")
	require.Nil(t, ErrValidation.Extensions)
}

func TestProblemDetail_Error(t *testing.T) {
	require.Equal(t, "Bad Gateway", ErrBadGateway.Error())
	require.Equal(t, "Conflict: dup", ErrConflict.WithDetail("dup").Error())
}
