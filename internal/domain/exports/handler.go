// Package exports genera descargas de datos para el personal de la clínica.
package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"clinic-api/internal/domain/access"
	"clinic-api/internal/domain/patients"
	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/logger"
)

// PatientSource devuelve todas las fichas ordenadas por apellido, nombre.
type PatientSource interface {
	ListAll(ctx context.Context) ([]patients.Patient, error)
}

var patientHeader = []string{"Id", "FirstName", "LastName", "BirthDate", "Phone", "Email", "Address"}

func RegisterRoutes(r chi.Router, src PatientSource, guard *access.Guard) {
	h := &handler{src: src, guard: guard, now: time.Now}
	r.Route("/exports", func(er chi.Router) {
		er.Get("/patients.csv", h.patientsCSV)
	})
}

type handler struct {
	src   PatientSource
	guard *access.Guard
	now   func() time.Time
}

// patientsCSV godoc
// @Summary      Exporta todos los pacientes en CSV (solo personal)
// @Tags         exports
// @Produce      text/csv
// @Success      200  {file}    file
// @Failure      401  {object}  apperror.Error
// @Failure      403  {object}  apperror.Error
// @Router       /api/exports/patients.csv [get]
func (h *handler) patientsCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.guard.Authorize(w, r, access.PatientExport, nil); !ok {
		return
	}

	ps, err := h.src.ListAll(r.Context())
	if err != nil {
		apperror.Write(w, r, err)
		return
	}

	name := fmt.Sprintf("patients_%s.csv", h.now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)

	// headers ya enviados: un error acá solo se puede loguear
	if err := WritePatients(w, ps); err != nil {
		logger.FromContext(r.Context()).Error("csv export failed", map[string]any{"error": err.Error()})
	}
}

// WritePatients escribe el CSV de pacientes (encabezado incluido).
func WritePatients(out io.Writer, ps []patients.Patient) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(patientHeader); err != nil {
		return err
	}
	for _, p := range ps {
		birth := ""
		if p.BirthDate != nil {
			birth = p.BirthDate.Format(patients.DateLayout)
		}
		row := []string{
			strconv.FormatInt(p.ID, 10),
			p.FirstName,
			p.LastName,
			birth,
			p.Phone,
			p.Email,
			p.Address,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
