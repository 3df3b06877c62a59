package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/platform/apperror"
)

type sample struct {
	FirstName string `json:"first_name" validate:"required,max=5"`
	Email     string `json:"email" validate:"omitempty,email"`
	Title     string `json:"title" validate:"omitempty,oneof=doctor nurse"`
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(sample{FirstName: "Ana", Email: "ana@clinic.test"}))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{FirstName: "", Email: "nope", Title: "pilot"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	ae := apperror.From(err)
	assert.Equal(t, "required", ae.Details["first_name"])
	assert.Equal(t, "must be a valid email", ae.Details["email"])
	assert.Equal(t, "must be one of: doctor nurse", ae.Details["title"])
}

func TestBind(t *testing.T) {
	var v sample
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"first_name":"Ana"}`))
	require.NoError(t, Bind(r, &v))
	assert.Equal(t, "Ana", v.FirstName)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"first_name":`))
	assert.ErrorIs(t, Bind(r, &v), apperror.ErrValidation)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"first_name":"too long name"}`))
	err := Bind(r, &sample{})
	require.Error(t, err)
	assert.Equal(t, "must be at most 5 characters", apperror.From(err).Details["first_name"])
}
