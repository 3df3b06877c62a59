package records

import (
	"context"
	"time"

	"clinic-api/internal/platform/pagination"
)

type Repository interface {
	// CreateRecord devuelve ErrPatientNotFound si el paciente no existe.
	CreateRecord(ctx context.Context, r Record) (Record, error)
	GetRecord(ctx context.Context, id int64) (Record, error)
	// LatestByPatient: la historia de mayor id del paciente.
	LatestByPatient(ctx context.Context, patientID int64) (Record, error)
	// ListRecords ordena por updated_at desc, id desc.
	ListRecords(ctx context.Context, p pagination.Params) ([]Record, int, error)

	// AddNote inserta la nota y actualiza updated_at de la historia a "at".
	AddNote(ctx context.Context, n Note, at time.Time) (Note, error)
	GetNote(ctx context.Context, id int64) (Note, error)
	UpdateNote(ctx context.Context, id int64, content string, at time.Time) (Note, error)
	DeleteNote(ctx context.Context, id int64, at time.Time) error
	// ListNotes más nuevas primero.
	ListNotes(ctx context.Context, recordID int64) ([]Note, error)
}
