package records

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"clinic-api/internal/domain/access"
	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/pagination"
	"clinic-api/internal/platform/validation"
)

func RegisterRoutes(r chi.Router, svc *Service, guard *access.Guard) {
	r.Route("/medical-records", func(mr chi.Router) {
		mr.Get("/", listRecordsHandler(svc, guard))
		mr.Post("/", createRecordHandler(svc, guard))

		mr.Get("/patient/{patientID}", latestByPatientHandler(svc, guard))

		mr.Get("/{id}", getRecordHandler(svc, guard))
		mr.Get("/{id}/notes", listNotesHandler(svc, guard))
		mr.Post("/{id}/notes", addNoteHandler(svc, guard))

		mr.Put("/notes/{noteID}", updateNoteHandler(svc, guard))
		mr.Delete("/notes/{noteID}", deleteNoteHandler(svc, guard))
	})
}

type createRecordRequest struct {
	PatientID       int64  `json:"patient_id" validate:"required,gt=0"`
	Allergies       string `json:"allergies" validate:"max=120"`
	BloodType       string `json:"blood_type" validate:"max=120"`
	ChronicDiseases string `json:"chronic_diseases" validate:"max=500"`
}

type noteRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type noteResponse struct {
	ID        int64     `json:"id"`
	StaffID   *int64    `json:"staff_id"`
	StaffName *string   `json:"staff_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type recordResponse struct {
	ID              int64          `json:"id"`
	PatientID       int64          `json:"patient_id"`
	Allergies       string         `json:"allergies"`
	BloodType       string         `json:"blood_type"`
	ChronicDiseases string         `json:"chronic_diseases"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Notes           []noteResponse `json:"notes"`
}

func toNoteResponse(n Note) noteResponse {
	out := noteResponse{ID: n.ID, StaffID: n.StaffID, Content: n.Content, CreatedAt: n.CreatedAt}
	if n.StaffID != nil && n.StaffName != "" {
		name := n.StaffName
		out.StaffName = &name
	}
	return out
}

func toNoteResponses(ns []Note) []noteResponse {
	out := make([]noteResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNoteResponse(n))
	}
	return out
}

func toRecordResponse(r Record) recordResponse {
	return recordResponse{
		ID:              r.ID,
		PatientID:       r.PatientID,
		Allergies:       r.Allergies,
		BloodType:       r.BloodType,
		ChronicDiseases: r.ChronicDiseases,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Notes:           toNoteResponses(r.Notes),
	}
}

func listRecordsHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.RecordList, nil); !ok {
			return
		}
		p := pagination.FromRequest(r)
		items, total, err := svc.List(r.Context(), p)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, pagination.Map(pagination.NewPage(p, total, items), toRecordResponse))
	}
}

func createRecordHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.RecordCreate, nil); !ok {
			return
		}
		var req createRecordRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}
		rec, err := svc.Create(r.Context(), CreateInput{
			PatientID:       req.PatientID,
			Allergies:       req.Allergies,
			BloodType:       req.BloodType,
			ChronicDiseases: req.ChronicDiseases,
		})
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// latestByPatientHandler godoc
// @Summary      Última historia clínica de un paciente
// @Tags         medical-records
// @Produce      json
// @Param        patientID  path  int  true  "Patient ID"
// @Success      200  {object}  recordResponse
// @Failure      401  {object}  apperror.Error
// @Failure      403  {object}  apperror.Error
// @Failure      404  {object}  apperror.Error
// @Router       /api/medical-records/patient/{patientID} [get]
func latestByPatientHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		pid, err := pathID(r, "patientID")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.RecordRead, access.PatientTarget(pid)); !ok {
			return
		}
		rec, err := svc.LatestByPatient(r.Context(), pid)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

func getRecordHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.RecordRead, recordTarget(svc, id)); !ok {
			return
		}
		rec, err := svc.Get(r.Context(), id)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

func listNotesHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !access.RequireIdentity(w, r) {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if _, ok := guard.Authorize(w, r, access.RecordRead, recordTarget(svc, id)); !ok {
			return
		}
		notes, err := svc.Notes(r.Context(), id)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toNoteResponses(notes))
	}
}

// addNoteHandler godoc
// @Summary      Agrega una nota (solo personal). El autor sale del email del token.
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Param        id    path  int          true  "Record ID"
// @Param        body  body  noteRequest  true  "Nota"
// @Success      201  {object}  noteResponse
// @Failure      400  {object}  apperror.Error
// @Failure      403  {object}  apperror.Error
// @Failure      404  {object}  apperror.Error
// @Router       /api/medical-records/{id}/notes [post]
func addNoteHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.NoteCreate, nil); !ok {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		var req noteRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}
		n, err := svc.AddNote(r.Context(), id, access.IdentityFrom(r).Email, req.Content)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, toNoteResponse(n))
	}
}

func updateNoteHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.NoteUpdate, nil); !ok {
			return
		}
		id, err := pathID(r, "noteID")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		var req noteRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}
		n, err := svc.UpdateNote(r.Context(), id, req.Content)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, toNoteResponse(n))
	}
}

func deleteNoteHandler(svc *Service, guard *access.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guard.Authorize(w, r, access.NoteDelete, nil); !ok {
			return
		}
		id, err := pathID(r, "noteID")
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		if err := svc.DeleteNote(r.Context(), id); err != nil {
			apperror.Write(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func recordTarget(svc *Service, id int64) access.Target {
	return func(ctx context.Context) (int64, error) {
		return svc.PatientOfRecord(ctx, id)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation(name + " must be a positive integer")
	}
	return id, nil
}
