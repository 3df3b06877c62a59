package staff

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clinic-api/internal/domain/access"
	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/pagination"
	"clinic-api/internal/platform/validation"
)

func RegisterRoutes(r chi.Router, svc *Service, guard *access.Guard) {
	r.Route("/staff", func(sr chi.Router) {
		sr.Get("/", listStaffHandler(svc, guard))
		sr.Post("/", createStaffHandler(svc, guard))
		sr.Get("/{id}", getStaffHandler(svc, guard))
		sr.Put("/{id}", updateStaffHandler(svc, guard))
		sr.Delete("/{id}", deleteStaffHandler(svc, guard))
	})
}

type staffRequest struct {
	FirstName string `json:"first_name" validate:"required,max=80"`
	LastName  string `json:"last_name" validate:"required,max=80"`
	Title     string `json:"title" validate:"required,oneof=doctor nurse secretary"`
	Email     string `json:"email" validate:"required,email,max=120"`
}

func (req staffRequest) toInput() Input {
	return Input{FirstName: req.FirstName, LastName: req.LastName, Title: Title(req.Title), Email: req.Email}
}

type staffResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     Title  `json:"title"`
	Email     string `json:"email"`
}

func toStaffResponse(m Member) staffResponse {
	return staffResponse{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Title: m.Title, Email: m.Email}
}

// listStaffHandler godoc
// @Summary      Lista el personal (Admin, Doctor)
// @Tags         staff
// @Produce      json
// @Param        page       query  int  false  "Página"
// @Param        page_size  query  int  false  "Tamaño de página"
// @Success      200  {object}  pagination.Page[staffResponse]
// @Failure      403  {object}  apperror.Error
// @Router       /api/staff [get]
func listStaffHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.StaffList, nil); !ok {
			return
		}
		p := pagination.FromRequest(r)
		items, total, err := svc.List(r.Context(), p)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, pagination.Map(pagination.NewPage(p, total, items), toStaffResponse))
	}
}

func getStaffHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.StaffRead, nil); !ok {
			return
		}
		id, err := pathID(r)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		m, err := svc.Get(r.Context(), id)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toStaffResponse(m))
	}
}

func createStaffHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.StaffCreate, nil); !ok {
			return
		}
		var req staffRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}
		m, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, toStaffResponse(m))
	}
}

func updateStaffHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.StaffUpdate, nil); !ok {
			return
		}
		id, err := pathID(r)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		var req staffRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}
		m, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toStaffResponse(m))
	}
}

func deleteStaffHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.StaffDelete, nil); !ok {
			return
		}
		id, err := pathID(r)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			apperror.Write(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("id must be a positive integer")
	}
	return id, nil
}
