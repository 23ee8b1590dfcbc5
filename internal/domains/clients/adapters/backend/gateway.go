// Package backend implements the clients gateway over the TelcoNova API.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/telconova/portal/internal/clients/http/telconova"
	"github.com/telconova/portal/internal/domains/clients/domain"
	"github.com/telconova/portal/internal/domains/clients/ports"
	"github.com/telconova/portal/internal/shared/jsonval"
)

type Gateway struct {
	client *telconova.Client
}

func NewGateway(client *telconova.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) ListClients(ctx context.Context, token string) ([]domain.Client, error) {
	payloads, err := g.client.ListClients(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	clients := make([]domain.Client, 0, len(payloads))
	for _, p := range payloads {
		clients = append(clients, fromPayload(p))
	}
	return clients, nil
}

func (g *Gateway) CreateClient(ctx context.Context, token string, client domain.Client) (jsonval.Value, error) {
	created, err := g.client.CreateClient(ctx, token, toPayload(client))
	if err != nil {
		return jsonval.Value{}, mapError(err)
	}
	return created.ID, nil
}

func toPayload(c domain.Client) telconova.ClientPayload {
	return telconova.ClientPayload{
		Nombre:         c.Name,
		Identificacion: c.Identification,
		Telefono:       c.Phone,
		Pais:           c.Country,
		Departamento:   c.Department,
		Ciudad:         c.City,
		Direccion:      c.Address,
		Email:          c.Email,
	}
}

func fromPayload(p telconova.ClientPayload) domain.Client {
	return domain.Client{
		ID:             p.ID,
		Name:           p.Nombre,
		Identification: p.Identificacion,
		Phone:          p.Telefono,
		Address:        p.Direccion,
		Email:          p.Email,
		Country:        p.Pais,
		Department:     p.Departamento,
		City:           p.Ciudad,
	}
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
		case http.StatusConflict:
			return fmt.Errorf("%w: %w", ports.ErrConflict, err)
		}
	}
	return fmt.Errorf("%w: %w", ports.ErrUpstream, err)
}

var _ ports.Gateway = (*Gateway)(nil)
