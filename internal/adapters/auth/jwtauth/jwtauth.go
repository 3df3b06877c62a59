// Package jwtauth emite y verifica los bearer tokens HS256 de la API.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clinic-api/internal/ports/auth"
)

const DefaultTTL = 3 * time.Hour

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// Service implementa auth.AuthVerifier y auth.TokenIssuer.
type Service struct {
	cfg Config
	now func() time.Time
}

var (
	_ auth.AuthVerifier = (*Service)(nil)
	_ auth.TokenIssuer  = (*Service)(nil)
)

func New(cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("jwtauth: secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

func (s *Service) Issue(_ context.Context, c auth.Claims) (auth.IssuedToken, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return auth.IssuedToken{}, errors.New("jwtauth: user id is required")
	}

	now := s.now()
	exp := now.Add(s.cfg.TTL)

	rc := jwt.RegisteredClaims{
		Subject:   c.UserID,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	if s.cfg.Audience != "" {
		rc.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: rc,
		Email:            c.Email,
		Roles:            c.Roles,
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return auth.IssuedToken{}, fmt.Errorf("jwtauth: sign token: %w", err)
	}
	return auth.IssuedToken{Token: signed, ExpiresAt: exp}, nil
}

// Verify valida firma, expiración, issuer y audience. Cualquier falla => auth.ErrInvalidToken.
func (s *Service) Verify(_ context.Context, token string) (auth.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !parsed.Valid || strings.TrimSpace(c.Subject) == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	return auth.Claims{
		UserID: c.Subject,
		Email:  c.Email,
		Roles:  c.Roles,
	}, nil
}
