// Package apperror define la taxonomía de errores de la API y su mapeo a HTTP.
//
// Los paquetes de dominio envuelven los sentinels (ErrNotFound, ErrForbidden, ...)
// con fmt.Errorf("%w") y los handlers delegan en Write para responder.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
)

// Error es la forma estructurada que termina serializada hacia el cliente.
type Error struct {
	Code    string
	Status  int
	Message string
	Details map[string]any

	// kind es uno de los sentinels; cause el error original (no se expone).
	kind  error
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap permite errors.Is contra el sentinel y contra la causa.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func Unauthenticated(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Status: http.StatusUnauthorized, Message: message, kind: ErrUnauthenticated}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Status: http.StatusForbidden, Message: message, kind: ErrForbidden}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message, kind: ErrNotFound}
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidationFailed, Status: http.StatusBadRequest, Message: message, kind: ErrValidation}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: message, kind: ErrConflict}
}

// Internal oculta el detalle al cliente; la causa queda para los logs.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "internal error", cause: err}
}

// From normaliza cualquier error a *Error.
// Los errores de dominio que envuelven un sentinel conservan su mensaje.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return Unauthenticated(err.Error())
	case errors.Is(err, ErrForbidden):
		return Forbidden(err.Error())
	case errors.Is(err, ErrNotFound):
		return NotFound(err.Error())
	case errors.Is(err, ErrValidation):
		return Validation(err.Error())
	case errors.Is(err, ErrConflict):
		return Conflict(err.Error())
	default:
		return Internal(err)
	}
}

// Status devuelve el código HTTP sugerido para err.
func Status(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return From(err).Status
}
