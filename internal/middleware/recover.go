package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/logger"
)

// Recover convierte un panic en 500 JSON y lo loguea con stack.
// http.ErrAbortHandler se re-lanza (lo usa net/http para cortar la conexión).
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromContext(r.Context()).Error("panic recovered", map[string]any{
				"panic": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
				"path":  r.URL.Path,
			})
			apperror.WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"code":    apperror.CodeInternal,
				"message": "internal error",
			})
		}()
		next.ServeHTTP(w, r)
	})
}
