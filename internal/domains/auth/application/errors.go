package application

import (
	"errors"
	"fmt"

	"github.com/telconova/portal/internal/shared/validation"
)

var ErrInvalidInput = errors.New("invalid auth input")

const (
	MsgLoginFailed     = "Error en el inicio de sesión"
	MsgConnectionError = "Error de conexión"
	MsgRegisterFailed  = "Error en el registro"
	MsgInvalidCode     = "Código de verificación inválido"
)

// LoginError carries the message shown to the user for a failed login or
// registration.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *LoginError) Unwrap() error { return e.Err }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
