package introspect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/ports/auth"
)

func newIdP(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var in struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)

		switch in.Token {
		case "good":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"active": true, "user_id": "u-1", "email": "ana@clinic.test", "roles": []string{"Medecin"},
			})
		case "revoked":
			_ = json.NewEncoder(w).Encode(map[string]any{"active": false})
		case "boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
}

func TestVerify(t *testing.T) {
	srv := newIdP(t)
	defer srv.Close()

	v, err := New(Config{BaseURL: srv.URL, APIKey: "key"})
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "ana@clinic.test", Roles: []string{"Medecin"}}, c)

	_, err = v.Verify(context.Background(), "revoked")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = v.Verify(context.Background(), "unknown")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = v.Verify(context.Background(), "boom")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Config{BaseURL: "http://idp"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
