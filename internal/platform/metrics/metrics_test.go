package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/middleware"
)

func TestObserveDecision(t *testing.T) {
	m := New()
	m.ObserveDecision("patient:delete", "deny_forbidden")
	m.ObserveDecision("patient:delete", "deny_forbidden")
	m.ObserveDecision("patient:read", "allow")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.accessDecisions.WithLabelValues("patient:delete", "deny_forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.accessDecisions.WithLabelValues("patient:read", "allow")))
}

func TestObserveDecision_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveDecision("x", "allow")
}

func TestInstrument_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/api/patients/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/patients/{id}", "418")))
}

func TestInstrument_CountsRecoveredPanics(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Use(middleware.Recover)
	r.Get("/api/appointments", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/appointments", "500")))
}
