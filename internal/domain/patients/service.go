package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-api/internal/platform/apperror"
)

var (
	ErrNotFound = fmt.Errorf("patient %w", apperror.ErrNotFound)
	// ErrNotLinked: la cuenta no tiene ficha de paciente.
	ErrNotLinked = fmt.Errorf("no patient linked to this account: %w", apperror.ErrNotFound)
)

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

type Input struct {
	FirstName string
	LastName  string
	BirthDate *time.Time
	Phone     string
	Email     string
	Address   string
}

func (in Input) apply(p *Patient) {
	p.FirstName = strings.TrimSpace(in.FirstName)
	p.LastName = strings.TrimSpace(in.LastName)
	p.BirthDate = in.BirthDate
	p.Phone = strings.TrimSpace(in.Phone)
	p.Email = strings.TrimSpace(in.Email)
	p.Address = strings.TrimSpace(in.Address)
}

func (s *Service) Create(ctx context.Context, in Input) (Patient, error) {
	now := s.now().UTC()
	p := Patient{CreatedAt: now, UpdatedAt: now}
	in.apply(&p)
	return s.repo.Create(ctx, p)
}

// Update reemplaza los datos demográficos. El vínculo con la cuenta no se toca.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}
	in.apply(&p)
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Patient, int, error) {
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.List(ctx, f)
}

func (s *Service) ListAll(ctx context.Context) ([]Patient, error) {
	return s.repo.ListAll(ctx)
}

// ForUser devuelve la ficha vinculada a la cuenta.
func (s *Service) ForUser(ctx context.Context, userID string) (Patient, error) {
	p, err := s.repo.GetByUserID(ctx, strings.TrimSpace(userID))
	if errors.Is(err, ErrNotFound) {
		return Patient{}, ErrNotLinked
	}
	return p, err
}

// PatientIDForUser: ok=false si la cuenta no tiene ficha.
func (s *Service) PatientIDForUser(ctx context.Context, userID string) (int64, bool, error) {
	p, err := s.ForUser(ctx, userID)
	if errors.Is(err, ErrNotLinked) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return p.ID, true, nil
}

// EnsureLinked crea (una sola vez) la ficha vacía de una cuenta Patient recién registrada.
func (s *Service) EnsureLinked(ctx context.Context, userID, email string) (Patient, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Patient{}, apperror.Validation("user id required")
	}
	now := s.now().UTC()
	p, _, err := s.repo.EnsureLinked(ctx, Patient{
		UserID:    &userID,
		Email:     strings.TrimSpace(email),
		CreatedAt: now,
		UpdatedAt: now,
	})
	return p, err
}
