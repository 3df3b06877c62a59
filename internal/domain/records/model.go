package records

import "time"

// Record es la historia clínica de un paciente. Un paciente puede tener varias;
// "la del paciente" es la de id más alto.
type Record struct {
	ID              int64
	PatientID       int64
	Allergies       string
	BloodType       string
	ChronicDiseases string

	CreatedAt time.Time
	// UpdatedAt se mueve con cada alta/edición/baja de nota.
	UpdatedAt time.Time

	// Notes más nuevas primero. Lo completa el repo en lecturas.
	Notes []Note
}

type Note struct {
	ID       int64
	RecordID int64
	// StaffID nil si el autor no es del personal o fue borrado.
	StaffID   *int64
	StaffName string
	Content   string
	CreatedAt time.Time
}
