package staff

import (
	"context"

	"clinic-api/internal/platform/pagination"
)

type Repository interface {
	Create(ctx context.Context, m Member) (Member, error)
	Update(ctx context.Context, m Member) error
	// Delete deja en NULL las referencias desde turnos y notas.
	Delete(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (Member, error)
	// GetByEmail compara sin distinguir mayúsculas.
	GetByEmail(ctx context.Context, email string) (Member, error)

	// List ordena por apellido, nombre, id.
	List(ctx context.Context, p pagination.Params) ([]Member, int, error)
}
