package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/pagination"
)

var (
	ErrNotFound        = fmt.Errorf("medical record %w", apperror.ErrNotFound)
	ErrNoteNotFound    = fmt.Errorf("medical note %w", apperror.ErrNotFound)
	ErrPatientNotFound = fmt.Errorf("patient %w", apperror.ErrNotFound)
	ErrEmptyContent    = fmt.Errorf("note content is required: %w", apperror.ErrValidation)
)

// AuthorLookup resuelve el autor de una nota por email del token.
// Lo implementa staff.Service.
type AuthorLookup interface {
	AuthorByEmail(ctx context.Context, email string) (id int64, name string, found bool, err error)
}

type Service struct {
	repo    Repository
	authors AuthorLookup
	now     func() time.Time
}

func NewService(repo Repository, authors AuthorLookup) *Service {
	return &Service{
		repo:    repo,
		authors: authors,
		now:     time.Now,
	}
}

type CreateInput struct {
	PatientID       int64
	Allergies       string
	BloodType       string
	ChronicDiseases string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	now := s.now().UTC()
	return s.repo.CreateRecord(ctx, Record{
		PatientID:       in.PatientID,
		Allergies:       strings.TrimSpace(in.Allergies),
		BloodType:       strings.TrimSpace(in.BloodType),
		ChronicDiseases: strings.TrimSpace(in.ChronicDiseases),
		CreatedAt:       now,
		UpdatedAt:       now,
		Notes:           []Note{},
	})
}

func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	return s.repo.GetRecord(ctx, id)
}

func (s *Service) LatestByPatient(ctx context.Context, patientID int64) (Record, error) {
	return s.repo.LatestByPatient(ctx, patientID)
}

func (s *Service) List(ctx context.Context, p pagination.Params) ([]Record, int, error) {
	return s.repo.ListRecords(ctx, p)
}

// PatientOfRecord es el Target del guard para operaciones por id de historia.
func (s *Service) PatientOfRecord(ctx context.Context, id int64) (int64, error) {
	r, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		return 0, err
	}
	return r.PatientID, nil
}

func (s *Service) Notes(ctx context.Context, recordID int64) ([]Note, error) {
	if _, err := s.repo.GetRecord(ctx, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, recordID)
}

// AddNote: authorEmail es el email del caller; si es del personal queda como autor.
func (s *Service) AddNote(ctx context.Context, recordID int64, authorEmail, content string) (Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Note{}, ErrEmptyContent
	}

	n := Note{RecordID: recordID, Content: content, CreatedAt: s.now().UTC()}
	if s.authors != nil {
		id, name, found, err := s.authors.AuthorByEmail(ctx, authorEmail)
		if err != nil {
			return Note{}, err
		}
		if found {
			n.StaffID = &id
			n.StaffName = name
		}
	}
	return s.repo.AddNote(ctx, n, n.CreatedAt)
}

func (s *Service) UpdateNote(ctx context.Context, noteID int64, content string) (Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Note{}, ErrEmptyContent
	}
	return s.repo.UpdateNote(ctx, noteID, content, s.now().UTC())
}

func (s *Service) DeleteNote(ctx context.Context, noteID int64) error {
	return s.repo.DeleteNote(ctx, noteID, s.now().UTC())
}
