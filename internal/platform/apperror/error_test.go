package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom_MapsWrappedSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("patient %w", ErrNotFound), http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("email already used: %w", ErrConflict), http.StatusConflict, CodeConflict},
		{fmt.Errorf("%w: first_name required", ErrValidation), http.StatusBadRequest, CodeValidationFailed},
		{ErrForbidden, http.StatusForbidden, CodeForbidden},
		{ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthenticated},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range cases {
		ae := From(tc.err)
		assert.Equal(t, tc.status, ae.Status, tc.err.Error())
		assert.Equal(t, tc.code, ae.Code, tc.err.Error())
	}
}

func TestError_IsMatchesKindAndCause(t *testing.T) {
	cause := errors.New("db down")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)

	nf := NotFound("appointment not found").WithCause(cause)
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.ErrorIs(t, nf, cause)
}

func TestWrite_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Write(rec, req, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var got body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, CodeInternal, got.Code)
	assert.Equal(t, "internal error", got.Message)
}

func TestWrite_IncludesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Write(rec, req, Validation("invalid input").WithDetail("first_name", "required"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "required", got.Details["first_name"])
}
