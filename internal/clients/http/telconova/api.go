package telconova

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/telconova/portal/internal/shared/jsonval"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	payload, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req)
	if err != nil {
		return nil, err
	}
	return decode[LoginResponse](payload, "login response")
}

// Me returns the profile of the token's owner.
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	payload, err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil)
	if err != nil {
		return nil, err
	}
	return decode[Profile](payload, "profile")
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req)
	return err
}

// ListOrders returns the raw listing body; decoding belongs to the caller.
func (c *Client) ListOrders(ctx context.Context, token string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/ordenes", token, nil)
}

func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*Created, error) {
	payload, err := c.do(ctx, http.MethodPost, "/api/ordenes", token, req)
	if err != nil {
		return nil, err
	}
	return decodeCreated(payload)
}

func (c *Client) UpdateOrder(ctx context.Context, token, id string, req UpdateOrderRequest) error {
	segment, err := pathID(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPut, "/api/ordenes/"+segment, token, req)
	return err
}

func (c *Client) DeleteOrder(ctx context.Context, token, id string) error {
	segment, err := pathID(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, "/api/ordenes/"+segment, token, nil)
	return err
}

func (c *Client) ListClients(ctx context.Context, token string) ([]ClientPayload, error) {
	payload, err := c.do(ctx, http.MethodGet, "/api/clientes", token, nil)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Content []ClientPayload `json:"content"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Content != nil {
		return wrapped.Content, nil
	}
	list, err := decode[[]ClientPayload](payload, "client listing")
	if err != nil {
		return nil, err
	}
	return *list, nil
}

func (c *Client) CreateClient(ctx context.Context, token string, client ClientPayload) (*Created, error) {
	payload, err := c.do(ctx, http.MethodPost, "/api/clientes", token, client)
	if err != nil {
		return nil, err
	}
	return decodeCreated(payload)
}

// decodeCreated tolerates bodies that are not objects; the id is optional.
func decodeCreated(payload []byte) (*Created, error) {
	created := &Created{Raw: append(json.RawMessage(nil), payload...)}
	var ids struct {
		ID        json.RawMessage `json:"id"`
		IDOrden   json.RawMessage `json:"idOrden"`
		IDCliente json.RawMessage `json:"idCliente"`
	}
	if err := json.Unmarshal(payload, &ids); err != nil {
		return created, nil
	}
	for _, candidate := range []json.RawMessage{ids.ID, ids.IDOrden, ids.IDCliente} {
		if v := jsonval.FromRaw(candidate); v.IsScalar() {
			created.ID = v
			break
		}
	}
	return created, nil
}
