package apperror

import (
	"net/http"

	"github.com/goccy/go-json"

	"clinic-api/internal/platform/logger"
)

type body struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Write responde err como JSON {code, message, details}.
// Los 5xx se loguean con la causa; el cliente solo ve el mensaje genérico.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	ae := From(err)
	if ae == nil {
		ae = Internal(nil)
	}

	if ae.Status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", map[string]any{
			"code":  ae.Code,
			"error": ae.Error(),
		})
	}

	WriteJSON(w, ae.Status, body{
		Code:    ae.Code,
		Message: ae.Message,
		Details: ae.Details,
	})
}

// WriteJSON queda acá para no duplicarlo en cada handler de dominio.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
