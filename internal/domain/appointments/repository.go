package appointments

import "context"

type Repository interface {
	// Create devuelve ErrPatientNotFound / ErrStaffNotFound si las referencias no existen.
	Create(ctx context.Context, a Appointment) (Appointment, error)
	// CreateOwned inserta solo si a.PatientID está vinculado a userID, en la misma
	// operación atómica que el insert. Si no, ErrNotOwner.
	CreateOwned(ctx context.Context, a Appointment, userID string) (Appointment, error)

	GetByID(ctx context.Context, id int64) (Appointment, error)
	List(ctx context.Context, f ListFilter) ([]Appointment, int, error)

	Update(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id int64) error
}
