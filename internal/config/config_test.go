package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DEV_AUTH", "true")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 3*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.DevAuth)
}

func TestLoad_RequiresSecretOutsideDevMode(t *testing.T) {
	t.Setenv("DEV_AUTH", "false")
	t.Setenv("AUTH_INTROSPECT_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("ROLE_SYNONYMS", "medic=doctor")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, map[string]string{"medic": "doctor"}, cfg.RoleSynonyms)
}

func TestParseSynonyms_SkipsMalformed(t *testing.T) {
	got := ParseSynonyms("a=doctor, broken ,=staff,b=")
	assert.Equal(t, map[string]string{"a": "doctor"}, got)
}
