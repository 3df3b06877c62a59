// Package validation envuelve go-playground/validator para los DTOs de entrada.
package validation

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"clinic-api/internal/platform/apperror"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Reportar errores con el nombre JSON del campo, no el de Go.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct valida v y devuelve un *apperror.Error (400) con un detalle por campo.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Validation("invalid input").WithCause(err)
	}

	ae := apperror.Validation("invalid input")
	for _, fe := range fieldErrs {
		ae.WithDetail(fe.Field(), describe(fe))
	}
	return ae
}

// Bind decodifica el body JSON en v y lo valida.
func Bind(r *http.Request, v any) error {
	if r.Body == nil {
		return apperror.Validation("invalid json")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Validation("invalid json").WithCause(err)
	}
	return Struct(v)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must match format " + fe.Param()
	default:
		return "invalid (" + fe.Tag() + ")"
	}
}
