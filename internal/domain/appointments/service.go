package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-api/internal/platform/apperror"
)

var (
	ErrNotFound        = fmt.Errorf("appointment %w", apperror.ErrNotFound)
	ErrPatientNotFound = fmt.Errorf("patient does not exist: %w", apperror.ErrValidation)
	ErrStaffNotFound   = fmt.Errorf("staff member does not exist: %w", apperror.ErrValidation)
	// ErrNotOwner: el vínculo paciente-cuenta cambió entre la autorización y el insert.
	ErrNotOwner = fmt.Errorf("patient is not linked to caller: %w", apperror.ErrForbidden)
)

// SelfLookup resuelve la ficha propia de una cuenta Patient.
// Interfaz local para no importar patients.
type SelfLookup interface {
	PatientIDForUser(ctx context.Context, userID string) (int64, bool, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	PatientID int64
	StaffID   *int64
	Date      time.Time
	Reason    string
}

func (s *Service) build(in CreateInput) Appointment {
	return Appointment{
		PatientID: in.PatientID,
		StaffID:   in.StaffID,
		Date:      in.Date.UTC(),
		Reason:    strings.TrimSpace(in.Reason),
		CreatedAt: s.now().UTC(),
	}
}

// Create es el alta del personal: sin chequeo de ownership.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	return s.repo.Create(ctx, s.build(in))
}

// CreateForSelf es el alta de un paciente para sí mismo. El ownership se
// re-verifica dentro del insert (ver Repository.CreateOwned).
func (s *Service) CreateForSelf(ctx context.Context, userID string, in CreateInput) (Appointment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Appointment{}, ErrNotOwner
	}
	return s.repo.CreateOwned(ctx, s.build(in), userID)
}

func (s *Service) Get(ctx context.Context, id int64) (Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// PatientOf es el Target del guard para operaciones por id de turno.
func (s *Service) PatientOf(ctx context.Context, id int64) (int64, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return a.PatientID, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Appointment, int, error) {
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	Date   time.Time
	Reason string
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	a.Date = in.Date.UTC()
	a.Reason = strings.TrimSpace(in.Reason)
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
