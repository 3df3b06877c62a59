// Package memory es el almacenamiento en proceso para dev y tests.
// Un único lock cubre todas las entidades: las cascadas y el alta
// condicionada al vínculo paciente-cuenta son atómicas.
package memory

import (
	"sync"

	"clinic-api/internal/domain/accounts"
	"clinic-api/internal/domain/appointments"
	"clinic-api/internal/domain/patients"
	"clinic-api/internal/domain/records"
	"clinic-api/internal/domain/staff"
)

type Store struct {
	mu sync.RWMutex

	seq struct {
		patient, appointment, record, note, staff int64
	}

	patients     map[int64]patients.Patient
	appointments map[int64]appointments.Appointment
	records      map[int64]records.Record
	notes        map[int64]records.Note
	staff        map[int64]staff.Member
	users        map[string]accounts.User
}

func NewStore() *Store {
	return &Store{
		patients:     make(map[int64]patients.Patient),
		appointments: make(map[int64]appointments.Appointment),
		records:      make(map[int64]records.Record),
		notes:        make(map[int64]records.Note),
		staff:        make(map[int64]staff.Member),
		users:        make(map[string]accounts.User),
	}
}

func (s *Store) Patients() patients.Repository         { return &patientRepo{s} }
func (s *Store) Appointments() appointments.Repository { return &appointmentRepo{s} }
func (s *Store) Records() records.Repository           { return &recordRepo{s} }
func (s *Store) Staff() staff.Repository               { return &staffRepo{s} }
func (s *Store) Accounts() accounts.Repository         { return &accountRepo{s} }

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
