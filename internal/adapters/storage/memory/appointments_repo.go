package memory

import (
	"context"
	"sort"

	"clinic-api/internal/domain/appointments"
	"clinic-api/internal/platform/pagination"
)

type appointmentRepo struct{ s *Store }

func (r *appointmentRepo) Create(_ context.Context, a appointments.Appointment) (appointments.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertAppointment(a)
}

func (r *appointmentRepo) CreateOwned(_ context.Context, a appointments.Appointment, userID string) (appointments.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.isLinked(a.PatientID, userID) {
		return appointments.Appointment{}, appointments.ErrNotOwner
	}
	return r.s.insertAppointment(a)
}

func (s *Store) insertAppointment(a appointments.Appointment) (appointments.Appointment, error) {
	if err := s.checkAppointmentRefs(a); err != nil {
		return appointments.Appointment{}, err
	}
	s.seq.appointment++
	a.ID = s.seq.appointment
	a.StaffID = cloneInt64(a.StaffID)
	s.appointments[a.ID] = a
	return a, nil
}

func (s *Store) checkAppointmentRefs(a appointments.Appointment) error {
	if _, ok := s.patients[a.PatientID]; !ok {
		return appointments.ErrPatientNotFound
	}
	if a.StaffID != nil {
		if _, ok := s.staff[*a.StaffID]; !ok {
			return appointments.ErrStaffNotFound
		}
	}
	return nil
}

func (r *appointmentRepo) GetByID(_ context.Context, id int64) (appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) List(_ context.Context, f appointments.ListFilter) ([]appointments.Appointment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.s.appointments {
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return pagination.Slice(out, f.Page), len(out), nil
}

func (r *appointmentRepo) Update(_ context.Context, a appointments.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[a.ID]; !ok {
		return appointments.ErrNotFound
	}
	if err := r.s.checkAppointmentRefs(a); err != nil {
		return err
	}
	a.StaffID = cloneInt64(a.StaffID)
	r.s.appointments[a.ID] = a
	return nil
}

func (r *appointmentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[id]; !ok {
		return appointments.ErrNotFound
	}
	delete(r.s.appointments, id)
	return nil
}
