package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/domain/accounts"
	"clinic-api/internal/domain/appointments"
	"clinic-api/internal/domain/patients"
	"clinic-api/internal/domain/records"
	"clinic-api/internal/domain/staff"
	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/pagination"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func TestPatients_ListSearchAndOrder(t *testing.T) {
	s := NewStore()
	repo := s.Patients()
	ctx := context.Background()

	for _, p := range []patients.Patient{
		{FirstName: "Zoe", LastName: "Martin"},
		{FirstName: "Ana", LastName: "Martin", Phone: "555-0101"},
		{FirstName: "Bob", LastName: "Adams", Email: "bob@clinic.test"},
	} {
		_, err := repo.Create(ctx, p)
		require.NoError(t, err)
	}

	all, total, err := repo.List(ctx, patients.ListFilter{Page: pagination.Normalize(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"Bob", "Ana", "Zoe"}, []string{all[0].FirstName, all[1].FirstName, all[2].FirstName})

	hits, total, err := repo.List(ctx, patients.ListFilter{Query: "0101", Page: pagination.Normalize(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Ana", hits[0].FirstName)

	hits, _, err = repo.List(ctx, patients.ListFilter{Query: "CLINIC", Page: pagination.Normalize(1, 10)})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Bob", hits[0].FirstName)
}

func TestPatients_DeleteCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p, err := s.Patients().Create(ctx, patients.Patient{FirstName: "Ana", LastName: "Diaz"})
	require.NoError(t, err)
	_, err = s.Appointments().Create(ctx, appointments.Appointment{PatientID: p.ID, Date: t0})
	require.NoError(t, err)
	rec, err := s.Records().CreateRecord(ctx, records.Record{PatientID: p.ID, CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	_, err = s.Records().AddNote(ctx, records.Note{RecordID: rec.ID, Content: "x", CreatedAt: t0}, t0)
	require.NoError(t, err)

	require.NoError(t, s.Patients().Delete(ctx, p.ID))
	assert.Empty(t, s.appointments)
	assert.Empty(t, s.records)
	assert.Empty(t, s.notes)

	assert.ErrorIs(t, s.Patients().Delete(ctx, p.ID), apperror.ErrNotFound)
}

func TestPatients_EnsureLinkedOneToOne(t *testing.T) {
	s := NewStore()
	repo := s.Patients()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.EnsureLinked(ctx, patients.Patient{UserID: strPtr("u-1")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, s.patients, 1)

	p, err := repo.GetByUserID(ctx, "u-1")
	require.NoError(t, err)

	ok, err := repo.IsLinked(ctx, p.ID, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsLinked(ctx, p.ID, "u-2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.IsLinked(ctx, 999, "u-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppointments_CreateOwnedChecksLinkAtomically(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	mine, _, err := s.Patients().EnsureLinked(ctx, patients.Patient{UserID: strPtr("u-1")})
	require.NoError(t, err)
	other, err := s.Patients().Create(ctx, patients.Patient{FirstName: "Otro"})
	require.NoError(t, err)

	_, err = s.Appointments().CreateOwned(ctx, appointments.Appointment{PatientID: mine.ID, Date: t0}, "u-1")
	require.NoError(t, err)

	_, err = s.Appointments().CreateOwned(ctx, appointments.Appointment{PatientID: other.ID, Date: t0}, "u-1")
	assert.ErrorIs(t, err, appointments.ErrNotOwner)

	_, err = s.Appointments().Create(ctx, appointments.Appointment{PatientID: 404, Date: t0})
	assert.ErrorIs(t, err, appointments.ErrPatientNotFound)

	_, err = s.Appointments().Create(ctx, appointments.Appointment{PatientID: other.ID, StaffID: i64Ptr(9), Date: t0})
	assert.ErrorIs(t, err, appointments.ErrStaffNotFound)
}

func TestAppointments_ListOrderedByDate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p, err := s.Patients().Create(ctx, patients.Patient{})
	require.NoError(t, err)
	q, err := s.Patients().Create(ctx, patients.Patient{})
	require.NoError(t, err)

	late, err := s.Appointments().Create(ctx, appointments.Appointment{PatientID: p.ID, Date: t0.Add(time.Hour)})
	require.NoError(t, err)
	early, err := s.Appointments().Create(ctx, appointments.Appointment{PatientID: p.ID, Date: t0})
	require.NoError(t, err)
	_, err = s.Appointments().Create(ctx, appointments.Appointment{PatientID: q.ID, Date: t0})
	require.NoError(t, err)

	items, total, err := s.Appointments().List(ctx, appointments.ListFilter{PatientID: &p.ID, Page: pagination.Normalize(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []int64{early.ID, late.ID}, []int64{items[0].ID, items[1].ID})
}

func TestStaff_DeleteOrphansReferences(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	m, err := s.Staff().Create(ctx, staff.Member{FirstName: "Luc", LastName: "Martin", Title: staff.TitleDoctor, Email: "luc@clinic.test"})
	require.NoError(t, err)
	_, err = s.Staff().Create(ctx, staff.Member{Email: "LUC@clinic.test"})
	assert.ErrorIs(t, err, staff.ErrEmailTaken)

	p, err := s.Patients().Create(ctx, patients.Patient{})
	require.NoError(t, err)
	a, err := s.Appointments().Create(ctx, appointments.Appointment{PatientID: p.ID, StaffID: &m.ID, Date: t0})
	require.NoError(t, err)
	rec, err := s.Records().CreateRecord(ctx, records.Record{PatientID: p.ID, CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	n, err := s.Records().AddNote(ctx, records.Note{RecordID: rec.ID, StaffID: &m.ID, Content: "x", CreatedAt: t0}, t0)
	require.NoError(t, err)
	assert.Equal(t, "Luc Martin", n.StaffName)

	require.NoError(t, s.Staff().Delete(ctx, m.ID))

	got, err := s.Appointments().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StaffID)

	n, err = s.Records().GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, n.StaffID)
	assert.Empty(t, n.StaffName)
}

func TestRecords_NotesBumpUpdatedAtAndOrder(t *testing.T) {
	s := NewStore()
	repo := s.Records()
	ctx := context.Background()

	_, err := repo.CreateRecord(ctx, records.Record{PatientID: 1})
	assert.ErrorIs(t, err, records.ErrPatientNotFound)

	p, err := s.Patients().Create(ctx, patients.Patient{})
	require.NoError(t, err)
	older, err := repo.CreateRecord(ctx, records.Record{PatientID: p.ID, CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	newer, err := repo.CreateRecord(ctx, records.Record{PatientID: p.ID, CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)

	n1, err := repo.AddNote(ctx, records.Note{RecordID: older.ID, Content: "a", CreatedAt: t0}, t0.Add(time.Minute))
	require.NoError(t, err)
	n2, err := repo.AddNote(ctx, records.Note{RecordID: older.ID, Content: "b", CreatedAt: t0.Add(time.Minute)}, t0.Add(2*time.Minute))
	require.NoError(t, err)

	list, total, err := repo.ListRecords(ctx, pagination.Normalize(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, older.ID, list[0].ID)

	notes, err := repo.ListNotes(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{n2.ID, n1.ID}, []int64{notes[0].ID, notes[1].ID})

	require.NoError(t, repo.DeleteNote(ctx, n1.ID, t0.Add(time.Hour)))
	got, err := repo.GetRecord(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)
	assert.Len(t, got.Notes, 1)

	latest, err := repo.LatestByPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	_, err = repo.UpdateNote(ctx, n1.ID, "x", t0)
	assert.ErrorIs(t, err, records.ErrNoteNotFound)
}

func TestAccounts_UniqueEmail(t *testing.T) {
	s := NewStore()
	repo := s.Accounts()
	ctx := context.Background()

	u, err := repo.Create(ctx, accounts.User{ID: "u-1", Email: "ana@clinic.test", Roles: []string{"Patient"}})
	require.NoError(t, err)

	_, err = repo.Create(ctx, accounts.User{ID: "u-2", Email: "ANA@clinic.test"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	got, err := repo.GetByEmail(ctx, "Ana@Clinic.test")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, accounts.ErrNotFound)
}
