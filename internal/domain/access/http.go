package access

import (
	"net/http"
	"strings"

	"clinic-api/internal/middleware"
	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/ports/auth"
)

// IdentityFrom arma la identidad del request a partir de los claims del middleware.
func IdentityFrom(r *http.Request) *auth.Claims {
	c, ok := middleware.GetClaims(r.Context())
	if !ok {
		return nil
	}
	return &c
}

// RequireIdentity responde 401 si el request no trae identidad. Lo llaman primero los
// handlers que parsean path, query o body antes del guard: 401 siempre antes que 400.
func RequireIdentity(w http.ResponseWriter, r *http.Request) bool {
	id := IdentityFrom(r)
	if id == nil || strings.TrimSpace(id.UserID) == "" {
		apperror.Write(w, r, apperror.Unauthenticated("authentication required"))
		return false
	}
	return true
}

// Authorize evalúa op para el request. Si no hay Allow, ya respondió (401/403/500)
// y devuelve false; el handler solo tiene que cortar.
func (g *Guard) Authorize(w http.ResponseWriter, r *http.Request, op Operation, target Target) (Decision, bool) {
	d, err := g.Evaluate(r.Context(), Request{
		Identity:  IdentityFrom(r),
		Operation: op,
		Target:    target,
	})
	if err != nil {
		apperror.Write(w, r, err)
		return Decision{}, false
	}
	if !d.Allowed() {
		apperror.Write(w, r, d.Err())
		return d, false
	}
	return d, true
}
