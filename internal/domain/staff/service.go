package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/pagination"
)

var (
	ErrNotFound    = fmt.Errorf("staff member %w", apperror.ErrNotFound)
	ErrEmailTaken  = fmt.Errorf("staff email already in use: %w", apperror.ErrConflict)
	ErrInvalidRole = fmt.Errorf("title must be doctor, nurse or secretary: %w", apperror.ErrValidation)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	FirstName string
	LastName  string
	Title     Title
	Email     string
}

func (in Input) normalize() (Input, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Title = Title(strings.ToLower(strings.TrimSpace(string(in.Title))))
	switch in.Title {
	case TitleDoctor, TitleNurse, TitleSecretary:
	default:
		return Input{}, ErrInvalidRole
	}
	return in, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Member, error) {
	in, err := in.normalize()
	if err != nil {
		return Member{}, err
	}
	return s.repo.Create(ctx, Member{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Title:     in.Title,
		Email:     in.Email,
	})
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Member, error) {
	in, err := in.normalize()
	if err != nil {
		return Member{}, err
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Member{}, err
	}
	m.FirstName, m.LastName, m.Title, m.Email = in.FirstName, in.LastName, in.Title, in.Email
	if err := s.repo.Update(ctx, m); err != nil {
		return Member{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, p pagination.Params) ([]Member, int, error) {
	return s.repo.List(ctx, p)
}

// AuthorByEmail resuelve el autor de una nota a partir del email del token.
// found=false si el email no corresponde a nadie del personal.
func (s *Service) AuthorByEmail(ctx context.Context, email string) (id int64, name string, found bool, err error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, "", false, nil
	}
	m, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, err
	}
	return m.ID, m.FullName(), true, nil
}
