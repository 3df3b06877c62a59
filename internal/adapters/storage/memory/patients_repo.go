package memory

import (
	"context"
	"sort"
	"strings"

	"clinic-api/internal/domain/patients"
	"clinic-api/internal/platform/pagination"
)

type patientRepo struct{ s *Store }

func (r *patientRepo) Create(_ context.Context, p patients.Patient) (patients.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertPatient(p), nil
}

func (s *Store) insertPatient(p patients.Patient) patients.Patient {
	s.seq.patient++
	p.ID = s.seq.patient
	s.patients[p.ID] = p
	return p
}

func (r *patientRepo) Update(_ context.Context, p patients.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[p.ID]; !ok {
		return patients.ErrNotFound
	}
	r.s.patients[p.ID] = p
	return nil
}

func (r *patientRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[id]; !ok {
		return patients.ErrNotFound
	}
	delete(r.s.patients, id)

	for aid, a := range r.s.appointments {
		if a.PatientID == id {
			delete(r.s.appointments, aid)
		}
	}
	for rid, rec := range r.s.records {
		if rec.PatientID != id {
			continue
		}
		for nid, n := range r.s.notes {
			if n.RecordID == rid {
				delete(r.s.notes, nid)
			}
		}
		delete(r.s.records, rid)
	}
	return nil
}

func (r *patientRepo) GetByID(_ context.Context, id int64) (patients.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.patients[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, nil
}

func (r *patientRepo) GetByUserID(_ context.Context, userID string) (patients.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if p, ok := r.s.patientForUser(userID); ok {
		return p, nil
	}
	return patients.Patient{}, patients.ErrNotFound
}

func (s *Store) patientForUser(userID string) (patients.Patient, bool) {
	for _, p := range s.patients {
		if p.UserID != nil && *p.UserID == userID {
			return p, true
		}
	}
	return patients.Patient{}, false
}

func (r *patientRepo) List(_ context.Context, f patients.ListFilter) ([]patients.Patient, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]patients.Patient, 0)
	for _, p := range r.s.sortedPatients() {
		if q == "" || matches(p, q) {
			out = append(out, p)
		}
	}
	return pagination.Slice(out, f.Page), len(out), nil
}

func (r *patientRepo) ListAll(context.Context) ([]patients.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedPatients(), nil
}

func (s *Store) sortedPatients() []patients.Patient {
	out := make([]patients.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matches(p patients.Patient, q string) bool {
	for _, f := range []string{p.FirstName, p.LastName, p.Email, p.Phone} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func (r *patientRepo) IsLinked(_ context.Context, patientID int64, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.isLinked(patientID, userID), nil
}

func (s *Store) isLinked(patientID int64, userID string) bool {
	p, ok := s.patients[patientID]
	return ok && userID != "" && p.UserID != nil && *p.UserID == userID
}

func (r *patientRepo) EnsureLinked(_ context.Context, p patients.Patient) (patients.Patient, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.UserID == nil {
		return r.s.insertPatient(p), true, nil
	}
	if existing, ok := r.s.patientForUser(*p.UserID); ok {
		return existing, false, nil
	}
	return r.s.insertPatient(p), true, nil
}
