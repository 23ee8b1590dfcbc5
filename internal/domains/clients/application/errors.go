package application

import (
	"errors"
	"fmt"

	"github.com/telconova/portal/internal/domains/clients/domain"
	"github.com/telconova/portal/internal/domains/clients/ports"
	"github.com/telconova/portal/internal/shared/validation"
)

var (
	// ErrInvalidInput signals a client form that failed validation.
	ErrInvalidInput = errors.New("invalid client input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrDuplicateIdentification) {
		return fmt.Errorf("%w: %w", ports.ErrConflict, err)
	}
	return err
}
