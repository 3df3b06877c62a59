package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/ports/auth"
)

func newService(t *testing.T, now time.Time) *Service {
	t.Helper()
	s, err := New(Config{Secret: "test-secret", Issuer: "clinic-api", Audience: "clinic-spa", TTL: time.Hour})
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := newService(t, now)

	tok, err := s.Issue(context.Background(), auth.Claims{UserID: "u-1", Email: "ana@clinic.test", Roles: []string{"Patient"}})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), tok.ExpiresAt)

	c, err := s.Verify(context.Background(), tok.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "ana@clinic.test", Roles: []string{"Patient"}}, c)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := newService(t, now)
	tok, err := s.Issue(context.Background(), auth.Claims{UserID: "u-1"})
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = s.Verify(context.Background(), tok.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_WrongSecretOrAudience(t *testing.T) {
	now := time.Now()
	s := newService(t, now)

	other, err := New(Config{Secret: "other", Issuer: "clinic-api", Audience: "clinic-spa"})
	require.NoError(t, err)
	tok, err := other.Issue(context.Background(), auth.Claims{UserID: "u-1"})
	require.NoError(t, err)
	_, err = s.Verify(context.Background(), tok.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	wrongAud, err := New(Config{Secret: "test-secret", Issuer: "clinic-api", Audience: "elsewhere"})
	require.NoError(t, err)
	tok, err = wrongAud.Issue(context.Background(), auth.Claims{UserID: "u-1"})
	require.NoError(t, err)
	_, err = s.Verify(context.Background(), tok.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_RejectsNoneAlg(t *testing.T) {
	s := newService(t, time.Now())

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		Issuer:    "clinic-api",
		Audience:  jwt.ClaimStrings{"clinic-spa"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	s := newService(t, time.Now())
	_, err := s.Verify(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
