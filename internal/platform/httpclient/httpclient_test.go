package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL + "/", Headers: map[string]string{"X-Api-Key": "k"}})
	require.NoError(t, err)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.DoJSON(context.Background(), http.MethodPost, "v1/echo", nil, map[string]string{"name": "ana"}, &out))
	assert.Equal(t, "ana", out.Name)
}

func TestDoJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(Options{})
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestDoJSON_RelativeWithoutBase(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.Error(t, c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil))
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "::not a url"})
	assert.Error(t, err)
}
