package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"clinic-api/internal/platform/logger"
	"clinic-api/internal/ports/auth"
)

type stubVerifier struct {
	claims auth.Claims
	err    error
}

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return s.claims, s.err
}

func captureClaims(got *auth.Claims, found *bool) http.Handler {
	return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		*got, *found = GetClaims(r.Context())
	})
}

func TestAuthContext_DevHeaders(t *testing.T) {
	var got auth.Claims
	var found bool
	h := AuthContext(nil)(captureClaims(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u-1")
	req.Header.Set("X-Debug-Roles", "Patient, Medecin ,")
	req.Header.Set("X-Debug-Email", "ana@clinic.test")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "ana@clinic.test", got.Email)
	assert.Equal(t, []string{"Patient", "Medecin"}, got.Roles)
}

func TestAuthContext_DevWithoutHeader(t *testing.T) {
	var got auth.Claims
	var found bool
	h := AuthContext(nil)(captureClaims(&got, &found))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, found)
}

func TestAuthContext_Verifier(t *testing.T) {
	v := stubVerifier{claims: auth.Claims{UserID: "u-7", Roles: []string{"Doctor"}}}

	cases := []struct {
		name   string
		header string
		found  bool
	}{
		{"valid", "Bearer good", true},
		{"case insensitive scheme", "bearer good", true},
		{"bad token", "Bearer nope", false},
		{"no scheme", "good", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got auth.Claims
			var found bool
			h := AuthContext(v)(captureClaims(&got, &found))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			// con verifier los headers de debug no cuentan
			req.Header.Set("X-Debug-User-ID", "intruder")
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tc.found, found)
			if tc.found {
				assert.Equal(t, "u-7", got.UserID)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logger.Wrap(zap.New(core))

	h := RequestLogger(l)(Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRequestLogger_AttachesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logger.Wrap(zap.New(core))

	h := chimw.RequestID(RequestLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside", nil)
		w.WriteHeader(http.StatusAccepted)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/y", nil))

	inside := logs.FilterMessage("inside").All()
	require.Len(t, inside, 1)
	assert.NotEmpty(t, inside[0].ContextMap()["request_id"])

	done := logs.FilterMessage("http request").All()
	require.Len(t, done, 1)
	assert.EqualValues(t, http.StatusAccepted, done[0].ContextMap()["status"])
}
