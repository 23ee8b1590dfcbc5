package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/telconova/portal/internal/clients/http/telconova"
	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/domains/orders/ports"
	"github.com/telconova/portal/internal/shared/jsonval"
)

// Gateway implements ports.Gateway over the TelcoNova client.
type Gateway struct {
	client *telconova.Client
}

func NewGateway(client *telconova.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) ListOrders(ctx context.Context, token string) ([]domain.WorkOrder, []error, error) {
	body, err := g.client.ListOrders(ctx, token)
	if err != nil {
		return nil, nil, mapError(err)
	}
	orders, skipped, err := DecodeListing(body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ports.ErrMalformedResponse, err)
	}
	return orders, skipped, nil
}

func (g *Gateway) CreateOrder(ctx context.Context, token string, req ports.CreateRequest) (jsonval.Value, error) {
	created, err := g.client.CreateOrder(ctx, token, telconova.CreateOrderRequest{
		IDCliente:      req.ClientID,
		IDTipoServicio: domain.ActivityID(req.Activity),
		IDPrioridad:    domain.CreatePriorityID(req.Priority),
		Descripcion:    req.Description,
		ProgramadaEn:   req.ScheduledAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return jsonval.Value{}, mapError(err)
	}
	return created.ID, nil
}

func (g *Gateway) UpdateOrder(ctx context.Context, token, id string, edit domain.OrderEdit) error {
	err := g.client.UpdateOrder(ctx, token, id, telconova.UpdateOrderRequest{
		IDEstado:       domain.EditStatusID(edit.Status),
		IDTipoServicio: domain.ActivityID(edit.Activity),
		IDPrioridad:    domain.EditPriorityID(edit.Priority),
		Descripcion:    edit.Description,
	})
	return mapError(err)
}

func (g *Gateway) DeleteOrder(ctx context.Context, token, id string) error {
	return mapError(g.client.DeleteOrder(ctx, token, id))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *telconova.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
		}
	}
	return fmt.Errorf("%w: %w", ports.ErrUpstream, err)
}

var _ ports.Gateway = (*Gateway)(nil)
