package memory

import (
	"context"
	"sort"
	"strings"

	"clinic-api/internal/domain/staff"
	"clinic-api/internal/platform/pagination"
)

type staffRepo struct{ s *Store }

func (r *staffRepo) Create(_ context.Context, m staff.Member) (staff.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.staffEmailTaken(m.Email, 0) {
		return staff.Member{}, staff.ErrEmailTaken
	}
	r.s.seq.staff++
	m.ID = r.s.seq.staff
	r.s.staff[m.ID] = m
	return m, nil
}

func (r *staffRepo) Update(_ context.Context, m staff.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.staff[m.ID]; !ok {
		return staff.ErrNotFound
	}
	if r.s.staffEmailTaken(m.Email, m.ID) {
		return staff.ErrEmailTaken
	}
	r.s.staff[m.ID] = m
	return nil
}

func (s *Store) staffEmailTaken(email string, except int64) bool {
	for id, m := range s.staff {
		if id != except && strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}

// Delete deja huérfanos (StaffID nil) a turnos y notas del miembro.
func (r *staffRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.staff[id]; !ok {
		return staff.ErrNotFound
	}
	delete(r.s.staff, id)

	for aid, a := range r.s.appointments {
		if a.StaffID != nil && *a.StaffID == id {
			a.StaffID = nil
			r.s.appointments[aid] = a
		}
	}
	for nid, n := range r.s.notes {
		if n.StaffID != nil && *n.StaffID == id {
			n.StaffID = nil
			r.s.notes[nid] = n
		}
	}
	return nil
}

func (r *staffRepo) GetByID(_ context.Context, id int64) (staff.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.staff[id]
	if !ok {
		return staff.Member{}, staff.ErrNotFound
	}
	return m, nil
}

func (r *staffRepo) GetByEmail(_ context.Context, email string) (staff.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.staff {
		if strings.EqualFold(m.Email, email) {
			return m, nil
		}
	}
	return staff.Member{}, staff.ErrNotFound
}

func (r *staffRepo) List(_ context.Context, p pagination.Params) ([]staff.Member, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]staff.Member, 0, len(r.s.staff))
	for _, m := range r.s.staff {
		out = append(out, m)
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
	return pagination.Slice(out, p), len(out), nil
}
