package telconova

import (
	"encoding/json"

	"github.com/telconova/portal/internal/shared/jsonval"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	User        *Profile `json:"user,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// Profile is the authenticated user as the backend describes it.
type Profile struct {
	ID     jsonval.Value `json:"id"`
	Nombre string        `json:"nombre"`
	Name   string        `json:"name,omitempty"`
	Email  string        `json:"email"`
	Rol    string        `json:"rol,omitempty"`
}

// DisplayName prefers nombre; some deployments send name instead.
func (p Profile) DisplayName() string {
	if p.Nombre != "" {
		return p.Nombre
	}
	return p.Name
}

type RegisterRequest struct {
	Nombre     string `json:"nombre"`
	NumeroIden string `json:"numero_iden"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Cellphone  string `json:"cellphone"`
}

type CreateOrderRequest struct {
	IDCliente      jsonval.Value `json:"idCliente"`
	IDTipoServicio int           `json:"idTipoServicio"`
	IDPrioridad    int           `json:"idPrioridad"`
	Descripcion    string        `json:"descripcion"`
	ProgramadaEn   string        `json:"programadaEn"`
}

type UpdateOrderRequest struct {
	IDEstado       int    `json:"idEstado"`
	IDTipoServicio int    `json:"idTipoServicio"`
	IDPrioridad    int    `json:"idPrioridad"`
	Descripcion    string `json:"descripcion"`
}

// ClientPayload is the backend cliente resource.
type ClientPayload struct {
	ID             jsonval.Value `json:"id,omitempty"`
	Nombre         string        `json:"nombre"`
	Identificacion string        `json:"identificacion"`
	Telefono       string        `json:"telefono"`
	Pais           string        `json:"pais,omitempty"`
	Departamento   string        `json:"departamento,omitempty"`
	Ciudad         string        `json:"ciudad,omitempty"`
	Direccion      string        `json:"direccion"`
	Email          string        `json:"email,omitempty"`
}

// Created is the subset of a creation response the portal reads.
type Created struct {
	ID  jsonval.Value   `json:"id"`
	Raw json.RawMessage `json:"-"`
}
