//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	pacttest "github.com/telconova/portal/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
	Activity    string `json:"activity"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Client      *struct {
		Name           string `json:"name"`
		Identification string `json:"identification"`
	} `json:"client"`
}

type listingPayload struct {
	Orders []orderPayload `json:"orders"`
	State  string         `json:"state"`
}

type searchPayload struct {
	Found   bool   `json:"found"`
	Message string `json:"message"`
	Client  *struct {
		ID             string `json:"id"`
		Identification string `json:"identification"`
	} `json:"client"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestWebPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	orderMatcher := matchers.Map{
		"id":          matchers.Like(pacttest.ExistingOrderID),
		"orderNumber": matchers.Like(pacttest.ExistingOrderNumber),
		"activity":    matchers.Term("Instalación", "Instalación|Reparación|Mantenimiento"),
		"priority":    matchers.Term("Alta", "Alta|Media|Baja"),
		"status":      matchers.Term("Abierta", "Abierta|En progreso|Cerrada"),
		"description": matchers.Like("Instalación de fibra óptica"),
		"client": matchers.Map{
			"name":           matchers.Like(pacttest.ExistingClientName),
			"identification": matchers.Like(pacttest.ExistingIdentification),
			"phone":          matchers.Like(pacttest.ExistingClientPhone),
		},
	}

	pact.AddInteraction().
		Given(pacttest.StateOrdersCached).
		UponReceiving("a request for the cached work orders").
		WithRequest("GET", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("X-Session-ID", matchers.S(pacttest.SessionID))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"orders": matchers.EachLike(orderMatcher, 1),
				"state":  matchers.S("ready"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing work order").
		WithRequest("GET", "/api/orders/"+pacttest.MissingOrderID, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("X-Session-ID", matchers.S(pacttest.SessionID))
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
				"detail": matchers.S("Orden no encontrada"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateClientsCached).
		UponReceiving("a search for a client by identification").
		WithRequest("GET", "/api/clients/search", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("X-Session-ID", matchers.S(pacttest.SessionID))
			b.Query("identification", matchers.S(pacttest.ExistingIdentification))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"found":   matchers.Like(true),
				"message": matchers.S("Cliente encontrado"),
				"client": matchers.Map{
					"id":             matchers.Like(pacttest.ExistingClientID),
					"identification": matchers.S(pacttest.ExistingIdentification),
				},
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var listing listingPayload
		if err := client.get(ctx, "/api/orders", nil, &listing); err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		if listing.State != "ready" || len(listing.Orders) == 0 {
			return fmt.Errorf("expected a ready listing, got %+v", listing)
		}
		if listing.Orders[0].Client == nil {
			return fmt.Errorf("expected the order to carry its client")
		}

		err := client.get(ctx, "/api/orders/"+pacttest.MissingOrderID, nil, &orderPayload{})
		if err == nil {
			return fmt.Errorf("expected 404 for order %s", pacttest.MissingOrderID)
		}
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %v", err)
		}

		var search searchPayload
		query := url.Values{"identification": {pacttest.ExistingIdentification}}
		if err := client.get(ctx, "/api/clients/search", query, &search); err != nil {
			return fmt.Errorf("search clients: %w", err)
		}
		if !search.Found || search.Client == nil {
			return fmt.Errorf("expected the client to be found, got %+v", search)
		}
		return nil
	})
	require.NoError(t, err)
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *portalClient) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Session-ID", pacttest.SessionID)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{status: status, title: problem.Title, detail: problem.Detail}
}
