package appointments

import (
	"context"
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

func RegisterRoutes(r chi.Router, svc *Service, self SelfLookup, guard *access.Guard) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", listAppointmentsHandler(svc, self, guard))
		ar.Post("/", createAppointmentHandler(svc, guard))
		ar.Get("/{id}", getAppointmentHandler(svc, guard))
		ar.Put("/{id}", updateAppointmentHandler(svc, guard))
		ar.Delete("/{id}", deleteAppointmentHandler(svc, guard))
	})
}

type createAppointmentRequest struct {
	PatientID int64  `json:"patient_id" validate:"required,gt=0"`
	StaffID   *int64 `json:"staff_id" validate:"omitempty,gt=0"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Reason    string `json:"reason" validate:"max=255"`
}

type updateAppointmentRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Reason string `json:"reason" validate:"max=255"`
}

type appointmentResponse struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patient_id"`
	StaffID   *int64    `json:"staff_id"`
	Date      time.Time `json:"date"`
	Reason    string    `json:"reason"`
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		StaffID:   a.StaffID,
		Date:      a.Date,
		Reason:    a.Reason,
	}
}

// listAppointmentsHandler godoc
// @Summary      Lista turnos. Un paciente solo ve los suyos.
// @Tags         appointments
// @Produce      json
// @Param        patient_id  query  int  false  "Filtra por paciente"
// @Param        page        query  int  false  "Página"
// @Param        page_size   query  int  false  "Tamaño de página"
// @Success      200  {object}  pagination.Page[appointmentResponse]
// @Failure      401  {object}  apperror.Error
// @Failure      403  {object}  apperror.Error
// @Router       /api/appointments [get]
func listAppointmentsHandler(svc *Service, self SelfLookup, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		p := pagination.FromRequest(r)
		f := ListFilter{Page: p}

		var target access.Target
		if raw := strings.TrimSpace(r.URL.Query().Get("patient_id")); raw != "" {
			pid, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || pid <= 0 {
				apperror.Write(w, r, apperror.Validation("patient_id must be a positive integer"))
				return
			}
			f.PatientID = &pid
			target = access.PatientTarget(pid)
		}

		d, ok := guard.Authorize(w, r, access.AppointmentList, target)
		if !ok {
			return
		}

		// Sin filtro explícito y con alcance propio => solo turnos de la ficha del caller.
		if d.Scope == access.ScopeSelf && f.PatientID == nil {
			pid, linked, err := self.PatientIDForUser(r.Context(), access.IdentityFrom(r).UserID)
			if err != nil {
				apperror.Write(w, r, err)
				return
			}
			if !linked {
				apperror.WriteJSON(w, http.StatusOK, pagination.NewPage[appointmentResponse](p, 0, nil))
				return
			}
			f.PatientID = &pid
		}

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, pagination.Map(pagination.NewPage(p, total, items), toAppointmentResponse))
	}
}

func getAppointmentHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		id, err := pathID(r)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.AppointmentRead, appointmentTarget(svc, id)); !ok {
			return
		}

		a, err := svc.Get(r.Context(), id)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// createAppointmentHandler godoc
// @Summary      Crea un turno. Un paciente solo puede crearlo para su propia ficha.
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body  createAppointmentRequest  true  "Turno"
// @Success      201  {object}  appointmentResponse
// @Failure      400  {object}  apperror.Error
// @Failure      401  {object}  apperror.Error
// @Failure      403  {object}  apperror.Error
// @Router       /api/appointments [post]
func createAppointmentHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		var req createAppointmentRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}

		d, ok := guard.Authorize(w, r, access.AppointmentCreate, access.PatientTarget(req.PatientID))
		if !ok {
			return
		}

		date, _ := time.Parse(time.RFC3339, req.Date)
		in := CreateInput{PatientID: req.PatientID, StaffID: req.StaffID, Date: date, Reason: req.Reason}

		var (
			a   Appointment
			err error
		)
		if d.Scope == access.ScopeSelf {
			a, err = svc.CreateForSelf(r.Context(), access.IdentityFrom(r).UserID, in)
		} else {
			a, err = svc.Create(r.Context(), in)
		}
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

func updateAppointmentHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		id, err := pathID(r)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.AppointmentUpdate, appointmentTarget(svc, id)); !ok {
			return
		}

		var req updateAppointmentRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}
		date, _ := time.Parse(time.RFC3339, req.Date)

		a, err := svc.Update(r.Context(), id, UpdateInput{Date: date, Reason: req.Reason})
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func deleteAppointmentHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		id, err := pathID(r)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.AppointmentDelete, appointmentTarget(svc, id)); !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			apperror.Write(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func appointmentTarget(svc *Service, id int64) access.Target {
	return func(ctx context.Context) (int64, error) {
		return svc.PatientOf(ctx, id)
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("id must be a positive integer")
	}
	return id, nil
}
