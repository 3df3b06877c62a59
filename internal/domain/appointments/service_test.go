package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/pagination"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	seq      int64
	byID     map[int64]Appointment
	patients map[int64]string // patientID -> linked userID ("" = sin vínculo)
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]Appointment{}, patients: map[int64]string{}}
}

func (r *testRepo) Create(_ context.Context, a Appointment) (Appointment, error) {
	if _, ok := r.patients[a.PatientID]; !ok {
		return Appointment{}, ErrPatientNotFound
	}
	r.seq++
	a.ID = r.seq
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) CreateOwned(ctx context.Context, a Appointment, userID string) (Appointment, error) {
	if uid, ok := r.patients[a.PatientID]; !ok || uid != userID {
		return Appointment{}, ErrNotOwner
	}
	return r.Create(ctx, a)
}

func (r *testRepo) GetByID(_ context.Context, id int64) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) List(_ context.Context, f ListFilter) ([]Appointment, int, error) {
	out := make([]Appointment, 0)
	for id := int64(1); id <= r.seq; id++ {
		a, ok := r.byID[id]
		if !ok || (f.PatientID != nil && a.PatientID != *f.PatientID) {
			continue
		}
		out = append(out, a)
	}
	return pagination.Slice(out, f.Page), len(out), nil
}

func (r *testRepo) Update(_ context.Context, a Appointment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var when = time.Date(2026, 4, 2, 14, 30, 0, 0, time.FixedZone("CET", 3600))

// -------------------------
// Tests
// -------------------------

func TestCreate_NormalizesToUTC(t *testing.T) {
	repo := newTestRepo()
	repo.patients[1] = ""
	svc := NewService(repo)

	a, err := svc.Create(context.Background(), CreateInput{PatientID: 1, Date: when, Reason: "  control "})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, a.Date.Location())
	assert.True(t, a.Date.Equal(when))
	assert.Equal(t, "control", a.Reason)
}

func TestCreate_UnknownPatient(t *testing.T) {
	svc := NewService(newTestRepo())
	_, err := svc.Create(context.Background(), CreateInput{PatientID: 99, Date: when})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreateForSelf(t *testing.T) {
	repo := newTestRepo()
	repo.patients[9] = "u-9"
	repo.patients[11] = "u-11"
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateForSelf(ctx, "u-9", CreateInput{PatientID: 9, Date: when})
	require.NoError(t, err)

	_, err = svc.CreateForSelf(ctx, "u-9", CreateInput{PatientID: 11, Date: when})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.CreateForSelf(ctx, "", CreateInput{PatientID: 9, Date: when})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCreateForSelf_LinkRemovedAfterAuthorization(t *testing.T) {
	repo := newTestRepo()
	repo.patients[9] = "u-9"
	svc := NewService(repo)

	// el vínculo desaparece entre el guard y el insert
	repo.patients[9] = ""
	_, err := svc.CreateForSelf(context.Background(), "u-9", CreateInput{PatientID: 9, Date: when})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, repo.byID)
}

func TestPatientOf(t *testing.T) {
	repo := newTestRepo()
	repo.patients[3] = ""
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{PatientID: 3, Date: when})
	require.NoError(t, err)

	pid, err := svc.PatientOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pid)

	_, err = svc.PatientOf(ctx, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo()
	repo.patients[1] = ""
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{PatientID: 1, Date: when, Reason: "x"})
	require.NoError(t, err)

	later := when.Add(24 * time.Hour)
	u, err := svc.Update(ctx, a.ID, UpdateInput{Date: later, Reason: "y"})
	require.NoError(t, err)
	assert.True(t, u.Date.Equal(later))
	assert.Equal(t, "y", u.Reason)
	assert.Equal(t, int64(1), u.PatientID)
}
