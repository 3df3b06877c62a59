package patients

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"clinic-api/internal/domain/access"
	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/pagination"
	"clinic-api/internal/platform/validation"
)

func RegisterRoutes(r chi.Router, svc *Service, guard *access.Guard) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(svc, guard))
		pr.Post("/", createPatientHandler(svc, guard))

		// Ficha propia (cuenta Patient)
		pr.Get("/me", myPatientHandler(svc))

		pr.Get("/{id}", getPatientHandler(svc, guard))
		pr.Put("/{id}", updatePatientHandler(svc, guard))
		pr.Delete("/{id}", deletePatientHandler(svc, guard))
	})
}

type patientRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Phone     string `json:"phone" validate:"max=25"`
	Email     string `json:"email" validate:"omitempty,email,max=200"`
	Address   string `json:"address" validate:"max=200"`
}

func (req patientRequest) toInput() Input {
	in := Input{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	}
	if bd := strings.TrimSpace(req.BirthDate); bd != "" {
		// ya validado por el tag datetime
		t, _ := time.Parse(DateLayout, bd)
		in.BirthDate = &t
	}
	return in
}

type patientResponse struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BirthDate *string `json:"birth_date"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Address   string  `json:"address"`
	Linked    bool    `json:"linked"`
}

func toPatientResponse(p Patient) patientResponse {
	out := patientResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		Linked:    p.UserID != nil,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format(DateLayout)
		out.BirthDate = &s
	}
	return out
}

// listPatientsHandler godoc
// @Summary      Lista pacientes
// @Tags         patients
// @Produce      json
// @Param        query      query  string  false  "Búsqueda por nombre, email o teléfono"
// @Param        page       query  int     false  "Página (>=1)"
// @Param        page_size  query  int     false  "Tamaño de página (1-100)"
// @Success      200  {object}  pagination.Page[patientResponse]
// @Failure      401  {object}  apperror.Error
// @Failure      403  {object}  apperror.Error
// @Router       /api/patients [get]
func listPatientsHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.PatientList, nil); !ok {
			return
		}

		p := pagination.FromRequest(r)
		items, total, err := svc.List(r.Context(), ListFilter{Query: r.URL.Query().Get("query"), Page: p})
		if err != nil {
			apperror.Write(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, pagination.Map(pagination.NewPage(p, total, items), toPatientResponse))
	}
}

func getPatientHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.PatientRead, access.PatientTarget(id)); !ok {
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// myPatientHandler godoc
// @Summary      Ficha del paciente vinculado a la cuenta
// @Tags         patients
// @Produce      json
// @Success      200  {object}  patientResponse
// @Failure      401  {object}  apperror.Error
// @Failure      404  {object}  apperror.Error
// @Router       /api/patients/me [get]
func myPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		p, err := svc.ForUser(r.Context(), access.IdentityFrom(r).UserID)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func createPatientHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.PatientCreate, nil); !ok {
			return
		}

		var req patientRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func updatePatientHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.PatientUpdate, access.PatientTarget(id)); !ok {
			return
		}

		var req patientRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}

		p, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// deletePatientHandler godoc
// @Summary      Borra un paciente (solo Admin). Arrastra turnos e historias.
// @Tags         patients
// @Param        id   path  int  true  "Patient ID"
// @Success      204
// @Failure      403  {object}  apperror.Error
// @Failure      404  {object}  apperror.Error
// @Router       /api/patients/{id} [delete]
func deletePatientHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.PatientDelete, access.PatientTarget(id)); !ok {
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			apperror.Write(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation(name + " must be a positive integer")
	}
	return id, nil
}
