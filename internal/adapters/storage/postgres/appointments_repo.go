package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"clinic-api/internal/domain/appointments"
)

const appointmentsTable = "appointments"

var appointmentColumns = []string{"id", "patient_id", "staff_id", "date", "reason", "created_at"}

type appointmentRow struct {
	ID        int64         `db:"id"`
	PatientID int64         `db:"patient_id"`
	StaffID   sql.NullInt64 `db:"staff_id"`
	Date      time.Time     `db:"date"`
	Reason    string        `db:"reason"`
	CreatedAt time.Time     `db:"created_at"`
}

func (r appointmentRow) toDomain() appointments.Appointment {
	return appointments.Appointment{
		ID:        r.ID,
		PatientID: r.PatientID,
		StaffID:   int64Ptr(r.StaffID),
		Date:      r.Date.UTC(),
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt,
	}
}

// insertOwnedSQL inserta solo si la ficha sigue vinculada al caller ($6),
// en el mismo statement que el insert.
const insertOwnedSQL = `
INSERT INTO appointments (patient_id, staff_id, date, reason, created_at)
SELECT $1::bigint, $2::bigint, $3::timestamptz, $4::text, $5::timestamptz
WHERE EXISTS (SELECT 1 FROM patients WHERE id = $1::bigint AND user_id = $6::text)
RETURNING id`

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func mapAppointmentErr(err error) error {
	if c, ok := constraintViolation(err, codeForeignKeyViolation); ok {
		switch c {
		case "appointments_patient_id_fkey":
			return appointments.ErrPatientNotFound
		case "appointments_staff_id_fkey":
			return appointments.ErrStaffNotFound
		}
	}
	return err
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) (appointments.Appointment, error) {
	query, args, err := psql.Insert(appointmentsTable).
		Columns("patient_id", "staff_id", "date", "reason", "created_at").
		Values(a.PatientID, nullInt64(a.StaffID), a.Date, a.Reason, a.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return appointments.Appointment{}, fmt.Errorf("build insert: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		if mapped := mapAppointmentErr(err); mapped != err {
			return appointments.Appointment{}, mapped
		}
		return appointments.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return a, nil
}

func (r *AppointmentsRepo) CreateOwned(ctx context.Context, a appointments.Appointment, userID string) (appointments.Appointment, error) {
	err := r.db.QueryRowContext(ctx, insertOwnedSQL,
		a.PatientID, nullInt64(a.StaffID), a.Date, a.Reason, a.CreatedAt, userID,
	).Scan(&a.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return appointments.Appointment{}, appointments.ErrNotOwner
	}
	if err != nil {
		if mapped := mapAppointmentErr(err); mapped != err {
			return appointments.Appointment{}, mapped
		}
		return appointments.Appointment{}, fmt.Errorf("insert owned appointment: %w", err)
	}
	return a, nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id int64) (appointments.Appointment, error) {
	query, args, err := psql.Select(appointmentColumns...).From(appointmentsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return appointments.Appointment{}, fmt.Errorf("build query: %w", err)
	}
	var row appointmentRow
	if err := sqlscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, fmt.Errorf("get appointment: %w", err)
	}
	return row.toDomain(), nil
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, int, error) {
	var where sq.Sqlizer = sq.Expr("TRUE")
	if f.PatientID != nil {
		where = sq.Eq{"patient_id": *f.PatientID}
	}

	total, err := count(ctx, r.db, appointmentsTable, where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(appointmentColumns...).From(appointmentsTable).
		Where(where).
		OrderBy("date", "id").
		Limit(uint64(f.Page.Limit())).
		Offset(uint64(f.Page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var rows []appointmentRow
	if err := sqlscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	out := make([]appointments.Appointment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	query, args, err := psql.Update(appointmentsTable).
		Set("staff_id", nullInt64(a.StaffID)).
		Set("date", a.Date).
		Set("reason", a.Reason).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapAppointmentErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(appointmentsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}
