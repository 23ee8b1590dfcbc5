package application

import (
	"errors"
	"fmt"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/shared/validation"
)

var (
	// ErrInvalidInput signals a form or edit that violates a domain rule.
	ErrInvalidInput = errors.New("invalid work order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.FieldErrors
	if errors.As(err, &fields) ||
		errors.Is(err, domain.ErrUnknownActivity) ||
		errors.Is(err, domain.ErrUnknownPriority) ||
		errors.Is(err, domain.ErrUnknownStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
