package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"clinic-api/internal/domain/patients"
)

const patientsTable = "patients"

var patientColumns = []string{
	"id", "user_id", "first_name", "last_name", "birth_date",
	"phone", "email", "address", "created_at", "updated_at",
}

type patientRow struct {
	ID        int64          `db:"id"`
	UserID    sql.NullString `db:"user_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	BirthDate sql.NullTime   `db:"birth_date"`
	Phone     string         `db:"phone"`
	Email     string         `db:"email"`
	Address   string         `db:"address"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r patientRow) toDomain() patients.Patient {
	p := patients.Patient{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Email:     r.Email,
		Address:   r.Address,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.UserID.Valid {
		uid := r.UserID.String
		p.UserID = &uid
	}
	if r.BirthDate.Valid {
		d := r.BirthDate.Time
		p.BirthDate = &d
	}
	return p
}

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r *PatientsRepo) insert(p patients.Patient) sq.InsertBuilder {
	return psql.Insert(patientsTable).
		Columns("user_id", "first_name", "last_name", "birth_date", "phone", "email", "address", "created_at", "updated_at").
		Values(nullString(p.UserID), p.FirstName, p.LastName, nullDate(p.BirthDate), p.Phone, p.Email, p.Address, p.CreatedAt, p.UpdatedAt)
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) (patients.Patient, error) {
	query, args, err := r.insert(p).Suffix("RETURNING id").ToSql()
	if err != nil {
		return patients.Patient{}, fmt.Errorf("build insert: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return patients.Patient{}, fmt.Errorf("insert patient: %w", err)
	}
	return p, nil
}

// Update no toca user_id: el vínculo solo lo crea EnsureLinked.
func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	query, args, err := psql.Update(patientsTable).
		Set("first_name", p.FirstName).
		Set("last_name", p.LastName).
		Set("birth_date", nullDate(p.BirthDate)).
		Set("phone", p.Phone).
		Set("email", p.Email).
		Set("address", p.Address).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

// Delete: turnos, historias y notas caen por ON DELETE CASCADE.
func (r *PatientsRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(patientsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) getOne(ctx context.Context, where sq.Sqlizer) (patients.Patient, error) {
	query, args, err := psql.Select(patientColumns...).From(patientsTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return patients.Patient{}, fmt.Errorf("build query: %w", err)
	}
	var row patientRow
	if err := sqlscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, fmt.Errorf("get patient: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id int64) (patients.Patient, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *PatientsRepo) GetByUserID(ctx context.Context, userID string) (patients.Patient, error) {
	return r.getOne(ctx, sq.Eq{"user_id": userID})
}

func (r *PatientsRepo) List(ctx context.Context, f patients.ListFilter) ([]patients.Patient, int, error) {
	var where sq.Sqlizer = sq.Expr("TRUE")
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		where = sq.Or{
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"phone": pattern},
		}
	}

	total, err := count(ctx, r.db, patientsTable, where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(patientColumns...).From(patientsTable).
		Where(where).
		OrderBy("last_name", "first_name", "id").
		Limit(uint64(f.Page.Limit())).
		Offset(uint64(f.Page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	out, err := r.selectMany(ctx, query, args)
	return out, total, err
}

func (r *PatientsRepo) ListAll(ctx context.Context) ([]patients.Patient, error) {
	query, args, err := psql.Select(patientColumns...).From(patientsTable).
		OrderBy("last_name", "first_name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.selectMany(ctx, query, args)
}

func (r *PatientsRepo) selectMany(ctx context.Context, query string, args []any) ([]patients.Patient, error) {
	var rows []patientRow
	if err := sqlscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	out := make([]patients.Patient, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PatientsRepo) IsLinked(ctx context.Context, patientID int64, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1 AND user_id = $2)`,
		patientID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check patient link: %w", err)
	}
	return ok, nil
}

// EnsureLinked se apoya en el índice único parcial sobre user_id.
func (r *PatientsRepo) EnsureLinked(ctx context.Context, p patients.Patient) (patients.Patient, bool, error) {
	if p.UserID == nil {
		created, err := r.Create(ctx, p)
		return created, err == nil, err
	}

	query, args, err := r.insert(p).
		Suffix("ON CONFLICT (user_id) WHERE user_id IS NOT NULL DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return patients.Patient{}, false, fmt.Errorf("build insert: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		existing, err := r.GetByUserID(ctx, *p.UserID)
		return existing, false, err
	}
	if err != nil {
		return patients.Patient{}, false, fmt.Errorf("link patient: %w", err)
	}
	return p, true, nil
}

func count(ctx context.Context, db sqlscan.Querier, table string, where sq.Sqlizer) (int, error) {
	query, args, err := psql.Select("count(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := sqlscan.Get(ctx, db, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
