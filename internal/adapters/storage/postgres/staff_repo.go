package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"clinic-api/internal/domain/staff"
	"clinic-api/internal/platform/pagination"
)

const staffTable = "staff"

var staffColumns = []string{"id", "first_name", "last_name", "title", "email"}

type staffRow struct {
	ID        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Title     string `db:"title"`
	Email     string `db:"email"`
}

func (r staffRow) toDomain() staff.Member {
	return staff.Member{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName, Title: staff.Title(r.Title), Email: r.Email}
}

type StaffRepo struct {
	db *sql.DB
}

func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) Create(ctx context.Context, m staff.Member) (staff.Member, error) {
	query, args, err := psql.Insert(staffTable).
		Columns("first_name", "last_name", "title", "email").
		Values(m.FirstName, m.LastName, string(m.Title), m.Email).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return staff.Member{}, fmt.Errorf("build insert: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&m.ID); err != nil {
		if _, ok := constraintViolation(err, codeUniqueViolation); ok {
			return staff.Member{}, staff.ErrEmailTaken
		}
		return staff.Member{}, fmt.Errorf("insert staff: %w", err)
	}
	return m, nil
}

func (r *StaffRepo) Update(ctx context.Context, m staff.Member) error {
	query, args, err := psql.Update(staffTable).
		Set("first_name", m.FirstName).
		Set("last_name", m.LastName).
		Set("title", string(m.Title)).
		Set("email", m.Email).
		Where(sq.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if _, ok := constraintViolation(err, codeUniqueViolation); ok {
			return staff.ErrEmailTaken
		}
		return fmt.Errorf("update staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// Delete: turnos y notas quedan con staff_id NULL (ON DELETE SET NULL).
func (r *StaffRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(staffTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

func (r *StaffRepo) getOne(ctx context.Context, where sq.Sqlizer) (staff.Member, error) {
	query, args, err := psql.Select(staffColumns...).From(staffTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return staff.Member{}, fmt.Errorf("build query: %w", err)
	}
	var row staffRow
	if err := sqlscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return staff.Member{}, staff.ErrNotFound
		}
		return staff.Member{}, fmt.Errorf("get staff: %w", err)
	}
	return row.toDomain(), nil
}

func (r *StaffRepo) GetByID(ctx context.Context, id int64) (staff.Member, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (staff.Member, error) {
	return r.getOne(ctx, sq.Expr("lower(email) = lower(?)", email))
}

func (r *StaffRepo) List(ctx context.Context, p pagination.Params) ([]staff.Member, int, error) {
	total, err := count(ctx, r.db, staffTable, sq.Expr("TRUE"))
	if err != nil {
		return nil, 0, err
	}
	query, args, err := psql.Select(staffColumns...).From(staffTable).
		OrderBy("last_name", "first_name", "id").
		Limit(uint64(p.Limit())).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	var rows []staffRow
	if err := sqlscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	out := make([]staff.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}
