package patients

import "context"

type Repository interface {
	// Create asigna el ID.
	Create(ctx context.Context, p Patient) (Patient, error)
	Update(ctx context.Context, p Patient) error
	// Delete borra en cascada turnos, historias clínicas y notas.
	Delete(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (Patient, error)
	GetByUserID(ctx context.Context, userID string) (Patient, error)

	// List ordena por apellido, nombre, id.
	List(ctx context.Context, f ListFilter) ([]Patient, int, error)
	// ListAll (export) ordena por apellido, nombre.
	ListAll(ctx context.Context) ([]Patient, error)

	// IsLinked es el point lookup del ownership resolver.
	IsLinked(ctx context.Context, patientID int64, userID string) (bool, error)

	// EnsureLinked crea p (con p.UserID) salvo que ya exista un paciente vinculado a esa cuenta.
	// created=false => devuelve el existente.
	EnsureLinked(ctx context.Context, p Patient) (out Patient, created bool, err error)
}
