package patients

import (
	"time"

	"clinic-api/internal/platform/pagination"
)

const DateLayout = "2006-01-02"

// Patient es la ficha demográfica. UserID es el vínculo opcional con una cuenta
// (nil = creado por el personal, sin dueño).
type Patient struct {
	ID     int64
	UserID *string

	FirstName string
	LastName  string
	BirthDate *time.Time
	Phone     string
	Email     string
	Address   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilter: Query busca en nombre, apellido, email y teléfono (case-insensitive).
type ListFilter struct {
	Query string
	Page  pagination.Params
}
