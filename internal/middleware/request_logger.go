package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"clinic-api/internal/platform/logger"
)

// RequestLogger cuelga del contexto un logger con request_id y loguea cada request al terminar.
// Debe ir después de chimw.RequestID.
func RequestLogger(base logger.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), l)))

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			fields := map[string]any{
				"method":      r.Method,
				"route":       route,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			l.Info("http request", fields)
		})
	}
}
