// Package config carga la configuración del servicio desde .env + variables de entorno.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	AppName string

	LogLevel  string
	LogFormat string

	// DBDSN vacío => storage in-memory.
	DBDSN string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	// Si AuthIntrospectURL viene, los tokens se validan contra el IdP remoto.
	AuthIntrospectURL    string
	AuthIntrospectAPIKey string

	// DevAuth habilita X-Debug-User-ID / X-Debug-Roles sin token.
	DevAuth bool

	CORSAllowedOrigins []string
	LoginRateLimit     int

	// RoleSynonyms: "medic=doctor,infirmier=staff"
	RoleSynonyms map[string]string

	SeedDemoUsers bool
}

var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required unless DEV_AUTH=true or AUTH_INTROSPECT_URL is set")

// Load lee .env (si existe) y luego el entorno. Las variables reales ganan sobre .env.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:      getString("PORT", "8080"),
		AppName:   getString("APP_NAME", "clinic-api"),
		LogLevel:  getString("LOG_LEVEL", "info"),
		LogFormat: getString("LOG_FORMAT", "text"),

		DBDSN: getString("DB_DSN", ""),

		JWTSecret:   getString("JWT_SECRET", ""),
		JWTIssuer:   getString("JWT_ISSUER", "clinic-api"),
		JWTAudience: getString("JWT_AUDIENCE", "clinic-spa"),
		JWTTTL:      getDuration("JWT_TTL", 3*time.Hour),

		AuthIntrospectURL:    getString("AUTH_INTROSPECT_URL", ""),
		AuthIntrospectAPIKey: getString("AUTH_INTROSPECT_API_KEY", ""),

		DevAuth: getBool("DEV_AUTH", false),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:4200"}),
		LoginRateLimit:     getInt("LOGIN_RATE_LIMIT", 10),

		RoleSynonyms: ParseSynonyms(os.Getenv("ROLE_SYNONYMS")),

		SeedDemoUsers: getBool("SEED_DEMO_USERS", false),
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.DevAuth || c.AuthIntrospectURL != "" {
		return nil
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// ParseSynonyms interpreta "alias=canonical,alias2=canonical2". Entradas mal formadas se ignoran.
func ParseSynonyms(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		alias, canonical, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		alias = strings.TrimSpace(alias)
		canonical = strings.TrimSpace(canonical)
		if alias == "" || canonical == "" {
			continue
		}
		out[alias] = canonical
	}
	return out
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(getString(key, ""))
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getString(key, ""))
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getString(key, ""))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getList(key string, def []string) []string {
	raw := getString(key, "")
	if raw == "" {
		return def
	}
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
