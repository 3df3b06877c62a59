package staff

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/pagination"
)

type testRepo struct {
	seq  int64
	byID map[int64]Member
}

func newTestRepo() *testRepo { return &testRepo{byID: map[int64]Member{}} }

func (r *testRepo) Create(_ context.Context, m Member) (Member, error) {
	for _, x := range r.byID {
		if strings.EqualFold(x.Email, m.Email) {
			return Member{}, ErrEmailTaken
		}
	}
	r.seq++
	m.ID = r.seq
	r.byID[m.ID] = m
	return m, nil
}

func (r *testRepo) Update(_ context.Context, m Member) error {
	if _, ok := r.byID[m.ID]; !ok {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id int64) (Member, error) {
	m, ok := r.byID[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (Member, error) {
	for _, m := range r.byID {
		if strings.EqualFold(m.Email, email) {
			return m, nil
		}
	}
	return Member{}, ErrNotFound
}

func (r *testRepo) List(_ context.Context, p pagination.Params) ([]Member, int, error) {
	out := make([]Member, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return pagination.Slice(out, p), len(out), nil
}

func TestCreate_NormalizesTitle(t *testing.T) {
	svc := NewService(newTestRepo())
	m, err := svc.Create(context.Background(), Input{FirstName: " Luc ", LastName: "Martin", Title: " Doctor", Email: "luc@clinic.test"})
	require.NoError(t, err)
	assert.Equal(t, TitleDoctor, m.Title)
	assert.Equal(t, "Luc Martin", m.FullName())
}

func TestCreate_RejectsUnknownTitle(t *testing.T) {
	svc := NewService(newTestRepo())
	_, err := svc.Create(context.Background(), Input{FirstName: "a", LastName: "b", Title: "pilot", Email: "a@b.c"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()
	_, err := svc.Create(ctx, Input{FirstName: "a", LastName: "b", Title: TitleNurse, Email: "n@clinic.test"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{FirstName: "c", LastName: "d", Title: TitleNurse, Email: "N@clinic.test"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAuthorByEmail(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()
	m, err := svc.Create(ctx, Input{FirstName: "Luc", LastName: "Martin", Title: TitleDoctor, Email: "luc@clinic.test"})
	require.NoError(t, err)

	id, name, found, err := svc.AuthorByEmail(ctx, "LUC@clinic.test")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, m.ID, id)
	assert.Equal(t, "Luc Martin", name)

	_, _, found, err = svc.AuthorByEmail(ctx, "nobody@clinic.test")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, found, err = svc.AuthorByEmail(ctx, "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())
	_, err := svc.Update(context.Background(), 9, Input{FirstName: "a", LastName: "b", Title: TitleNurse, Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrNotFound)
}
