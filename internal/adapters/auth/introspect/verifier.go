// Package introspect valida bearer tokens contra un identity provider remoto
// (endpoint de introspección) en lugar de verificarlos localmente.
package introspect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clinic-api/internal/platform/httpclient"
	"clinic-api/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("introspect: client not configured")
	ErrUpstream      = errors.New("introspect: upstream error")
)

const (
	defaultPath         = "/v1/tokens/introspect"
	defaultAPIKeyHeader = "X-Api-Key"
)

type Config struct {
	BaseURL string
	APIKey  string

	// Path del endpoint; vacío => /v1/tokens/introspect.
	Path string
	// Header de la API key; vacío => X-Api-Key.
	APIKeyHeader string

	Timeout   time.Duration
	Transport http.RoundTripper
}

type response struct {
	Active bool     `json:"active"`
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	client *httpclient.Client
	path   string
}

var _ auth.AuthVerifier = (*Verifier)(nil)

func New(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = defaultAPIKeyHeader
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = defaultPath
	}

	c, err := httpclient.New(httpclient.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Transport: cfg.Transport,
		Headers:   map[string]string{h: strings.TrimSpace(cfg.APIKey)},
	})
	if err != nil {
		return nil, err
	}
	return &Verifier{client: c, path: path}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	var out response
	err := v.client.DoJSON(ctx, http.MethodPost, v.path,
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, auth.ErrInvalidToken
		default:
			return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	uid := strings.TrimSpace(out.UserID)
	if !out.Active || uid == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	return auth.Claims{
		UserID: uid,
		Email:  strings.TrimSpace(out.Email),
		Roles:  out.Roles,
	}, nil
}
