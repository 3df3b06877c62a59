package appointments

import (
	"time"

	"clinic-api/internal/platform/pagination"
)

type Appointment struct {
	ID        int64
	PatientID int64
	// StaffID es opcional; queda en nil si se borra el miembro del personal.
	StaffID *int64
	Date    time.Time
	Reason  string

	CreatedAt time.Time
}

// ListFilter: PatientID nil => todos. Orden: fecha, id.
type ListFilter struct {
	PatientID *int64
	Page      pagination.Params
}
