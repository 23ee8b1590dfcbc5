// Package backend implements the auth gateway over the TelcoNova API.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/telconova/portal/internal/clients/http/telconova"
	"github.com/telconova/portal/internal/domains/auth/domain"
	"github.com/telconova/portal/internal/domains/auth/ports"
	"github.com/telconova/portal/internal/shared/validation"
)

type Gateway struct {
	client *telconova.Client
}

func NewGateway(client *telconova.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) Login(ctx context.Context, email, password string) (ports.Credentials, error) {
	res, err := g.client.Login(ctx, telconova.LoginRequest{Email: email, Password: password})
	if err != nil {
		return ports.Credentials{}, mapError(err)
	}
	creds := ports.Credentials{AccessToken: res.AccessToken}
	if res.User != nil {
		user := fromProfile(*res.User)
		creds.User = &user
	}
	return creds, nil
}

func (g *Gateway) Me(ctx context.Context, token string) (domain.User, error) {
	profile, err := g.client.Me(ctx, token)
	if err != nil {
		return domain.User{}, mapError(err)
	}
	return fromProfile(*profile), nil
}

func (g *Gateway) Register(ctx context.Context, form validation.RegisterForm) error {
	return mapError(g.client.Register(ctx, telconova.RegisterRequest{
		Nombre:     form.Nombre,
		NumeroIden: form.NumeroIden,
		Email:      form.Email,
		Password:   form.Password,
		Cellphone:  form.Cellphone,
	}))
}

func fromProfile(p telconova.Profile) domain.User {
	return domain.User{ID: p.ID, Name: p.DisplayName(), Email: p.Email, Role: p.Rol}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *telconova.APIError
	if errors.As(err, &apiErr) {
		return &ports.RejectedError{Message: apiErr.Message, Err: err}
	}
	return fmt.Errorf("%w: %w", ports.ErrUpstream, err)
}

var _ ports.Gateway = (*Gateway)(nil)
