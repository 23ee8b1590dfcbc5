// Package domain holds the client record kept in a session's cache and the
// lookups the client pages perform on it.
package domain

import (
	"errors"
	"strings"

	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/validation"
)

var ErrDuplicateIdentification = errors.New("a client with this identification already exists")

// Client is a customer record. ID keeps the JSON type it was created with.
type Client struct {
	ID             jsonval.Value `json:"id"`
	Name           string        `json:"name"`
	Identification string        `json:"identification"`
	Phone          string        `json:"phone"`
	Address        string        `json:"address"`
	Email          string        `json:"email,omitempty"`
	Country        string        `json:"country,omitempty"`
	Department     string        `json:"department,omitempty"`
	City           string        `json:"city,omitempty"`
	CreatedAt      string        `json:"createdAt,omitempty"`
	UpdatedAt      string        `json:"updatedAt,omitempty"`
}

// FromForm builds a client from a validated form.
func FromForm(form validation.ClientForm, id jsonval.Value, timestamp string) Client {
	return Client{
		ID:             id,
		Name:           strings.TrimSpace(form.Name),
		Identification: strings.TrimSpace(form.Identification),
		Phone:          strings.TrimSpace(form.Phone),
		Address:        strings.TrimSpace(form.Address),
		Email:          strings.TrimSpace(form.Email),
		Country:        form.Country,
		Department:     form.Department,
		City:           form.City,
		CreatedAt:      timestamp,
		UpdatedAt:      timestamp,
	}
}

// Form is the editable view of c, used to prefill the client page.
func (c Client) Form() validation.ClientForm {
	return validation.ClientForm{
		Name:           c.Name,
		Identification: c.Identification,
		Phone:          c.Phone,
		Address:        c.Address,
		Email:          c.Email,
		Country:        c.Country,
		Department:     c.Department,
		City:           c.City,
	}
}

// CheckUnique rejects a new client whose identification or id is taken.
func CheckUnique(existing []Client, candidate Client) error {
	for _, c := range existing {
		if c.Identification == candidate.Identification {
			return ErrDuplicateIdentification
		}
		if candidate.ID.IsScalar() && c.ID.SameID(candidate.ID) {
			return ErrDuplicateIdentification
		}
	}
	return nil
}
