package memory

import (
	"context"
	"sort"
	"time"

	"clinic-api/internal/domain/records"
	"clinic-api/internal/platform/pagination"
)

type recordRepo struct{ s *Store }

func (r *recordRepo) CreateRecord(_ context.Context, rec records.Record) (records.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[rec.PatientID]; !ok {
		return records.Record{}, records.ErrPatientNotFound
	}
	r.s.seq.record++
	rec.ID = r.s.seq.record
	rec.Notes = nil
	r.s.records[rec.ID] = rec

	rec.Notes = []records.Note{}
	return rec, nil
}

func (r *recordRepo) GetRecord(_ context.Context, id int64) (records.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return records.Record{}, records.ErrNotFound
	}
	rec.Notes = r.s.notesOf(id)
	return rec, nil
}

func (r *recordRepo) LatestByPatient(_ context.Context, patientID int64) (records.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest int64
	for id, rec := range r.s.records {
		if rec.PatientID == patientID && id > latest {
			latest = id
		}
	}
	if latest == 0 {
		return records.Record{}, records.ErrNotFound
	}
	rec := r.s.records[latest]
	rec.Notes = r.s.notesOf(latest)
	return rec, nil
}

// ListRecords no carga notas.
func (r *recordRepo) ListRecords(_ context.Context, p pagination.Params) ([]records.Record, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]records.Record, 0, len(r.s.records))
	for _, rec := range r.s.records {
		rec.Notes = []records.Note{}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return pagination.Slice(out, p), len(out), nil
}

func (r *recordRepo) AddNote(_ context.Context, n records.Note, at time.Time) (records.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[n.RecordID]; !ok {
		return records.Note{}, records.ErrNotFound
	}
	if n.StaffID != nil {
		if _, ok := r.s.staff[*n.StaffID]; !ok {
			n.StaffID = nil
		}
	}
	r.s.seq.note++
	n.ID = r.s.seq.note
	n.StaffID = cloneInt64(n.StaffID)
	n.StaffName = ""
	r.s.notes[n.ID] = n
	r.s.touchRecord(n.RecordID, at)

	return r.s.withAuthor(n), nil
}

func (r *recordRepo) GetNote(_ context.Context, id int64) (records.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notes[id]
	if !ok {
		return records.Note{}, records.ErrNoteNotFound
	}
	return r.s.withAuthor(n), nil
}

func (r *recordRepo) UpdateNote(_ context.Context, id int64, content string, at time.Time) (records.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok {
		return records.Note{}, records.ErrNoteNotFound
	}
	n.Content = content
	r.s.notes[id] = n
	r.s.touchRecord(n.RecordID, at)
	return r.s.withAuthor(n), nil
}

func (r *recordRepo) DeleteNote(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok {
		return records.ErrNoteNotFound
	}
	delete(r.s.notes, id)
	r.s.touchRecord(n.RecordID, at)
	return nil
}

func (r *recordRepo) ListNotes(_ context.Context, recordID int64) ([]records.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.records[recordID]; !ok {
		return nil, records.ErrNotFound
	}
	return r.s.notesOf(recordID), nil
}

func (s *Store) touchRecord(id int64, at time.Time) {
	if rec, ok := s.records[id]; ok {
		rec.UpdatedAt = at
		s.records[id] = rec
	}
}

// notesOf: más nuevas primero, con el nombre actual del autor.
func (s *Store) notesOf(recordID int64) []records.Note {
	out := make([]records.Note, 0)
	for _, n := range s.notes {
		if n.RecordID == recordID {
			out = append(out, s.withAuthor(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) withAuthor(n records.Note) records.Note {
	n.StaffName = ""
	if n.StaffID != nil {
		if m, ok := s.staff[*n.StaffID]; ok {
			n.StaffName = m.FullName()
		}
	}
	return n
}
