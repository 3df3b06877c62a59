package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"clinic-api/internal/domain/records"
	"clinic-api/internal/platform/pagination"
)

const (
	recordsTable = "medical_records"
	notesTable   = "medical_notes"
)

var recordColumns = []string{"id", "patient_id", "allergies", "blood_type", "chronic_diseases", "created_at", "updated_at"}

type recordRow struct {
	ID              int64     `db:"id"`
	PatientID       int64     `db:"patient_id"`
	Allergies       string    `db:"allergies"`
	BloodType       string    `db:"blood_type"`
	ChronicDiseases string    `db:"chronic_diseases"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r recordRow) toDomain() records.Record {
	return records.Record{
		ID:              r.ID,
		PatientID:       r.PatientID,
		Allergies:       r.Allergies,
		BloodType:       r.BloodType,
		ChronicDiseases: r.ChronicDiseases,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Notes:           []records.Note{},
	}
}

type noteRow struct {
	ID        int64          `db:"id"`
	RecordID  int64          `db:"record_id"`
	StaffID   sql.NullInt64  `db:"staff_id"`
	StaffName sql.NullString `db:"staff_name"`
	Content   string         `db:"content"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r noteRow) toDomain() records.Note {
	return records.Note{
		ID:        r.ID,
		RecordID:  r.RecordID,
		StaffID:   int64Ptr(r.StaffID),
		StaffName: r.StaffName.String,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

// notesSelect trae el nombre actual del autor (NULL si no hay).
func notesSelect() sq.SelectBuilder {
	return psql.Select(
		"n.id", "n.record_id", "n.staff_id",
		"CASE WHEN s.id IS NULL THEN NULL ELSE s.first_name || ' ' || s.last_name END AS staff_name",
		"n.content", "n.created_at",
	).
		From(notesTable + " n").
		LeftJoin("staff s ON s.id = n.staff_id")
}

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) CreateRecord(ctx context.Context, rec records.Record) (records.Record, error) {
	query, args, err := psql.Insert(recordsTable).
		Columns("patient_id", "allergies", "blood_type", "chronic_diseases", "created_at", "updated_at").
		Values(rec.PatientID, rec.Allergies, rec.BloodType, rec.ChronicDiseases, rec.CreatedAt, rec.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return records.Record{}, fmt.Errorf("build insert: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID); err != nil {
		if _, ok := constraintViolation(err, codeForeignKeyViolation); ok {
			return records.Record{}, records.ErrPatientNotFound
		}
		return records.Record{}, fmt.Errorf("insert medical record: %w", err)
	}
	rec.Notes = []records.Note{}
	return rec, nil
}

func (r *RecordsRepo) getRecord(ctx context.Context, q sq.SelectBuilder) (records.Record, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return records.Record{}, fmt.Errorf("build query: %w", err)
	}
	var row recordRow
	if err := sqlscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return records.Record{}, records.ErrNotFound
		}
		return records.Record{}, fmt.Errorf("get medical record: %w", err)
	}
	rec := row.toDomain()
	if rec.Notes, err = r.ListNotes(ctx, rec.ID); err != nil {
		return records.Record{}, err
	}
	return rec, nil
}

func (r *RecordsRepo) GetRecord(ctx context.Context, id int64) (records.Record, error) {
	return r.getRecord(ctx, psql.Select(recordColumns...).From(recordsTable).Where(sq.Eq{"id": id}))
}

func (r *RecordsRepo) LatestByPatient(ctx context.Context, patientID int64) (records.Record, error) {
	return r.getRecord(ctx, psql.Select(recordColumns...).From(recordsTable).
		Where(sq.Eq{"patient_id": patientID}).
		OrderBy("id DESC").
		Limit(1))
}

func (r *RecordsRepo) ListRecords(ctx context.Context, p pagination.Params) ([]records.Record, int, error) {
	total, err := count(ctx, r.db, recordsTable, sq.Expr("TRUE"))
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(recordColumns...).From(recordsTable).
		OrderBy("updated_at DESC", "id DESC").
		Limit(uint64(p.Limit())).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var rows []recordRow
	if err := sqlscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list medical records: %w", err)
	}
	out := make([]records.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

// inTx corre fn en una transacción; rollback si fn falla.
func (r *RecordsRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func touchRecord(ctx context.Context, tx *sql.Tx, recordID int64, at time.Time) error {
	query, args, err := psql.Update(recordsTable).
		Set("updated_at", at).
		Where(sq.Eq{"id": recordID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("touch medical record: %w", err)
	}
	return nil
}

func getNote(ctx context.Context, q sqlscan.Querier, id int64) (records.Note, error) {
	query, args, err := notesSelect().Where(sq.Eq{"n.id": id}).ToSql()
	if err != nil {
		return records.Note{}, fmt.Errorf("build query: %w", err)
	}
	var row noteRow
	if err := sqlscan.Get(ctx, q, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return records.Note{}, records.ErrNoteNotFound
		}
		return records.Note{}, fmt.Errorf("get medical note: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RecordsRepo) AddNote(ctx context.Context, n records.Note, at time.Time) (records.Note, error) {
	var out records.Note
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := psql.Insert(notesTable).
			Columns("record_id", "staff_id", "content", "created_at").
			Values(n.RecordID, nullInt64(n.StaffID), n.Content, n.CreatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if c, ok := constraintViolation(err, codeForeignKeyViolation); ok && c == "medical_notes_record_id_fkey" {
				return records.ErrNotFound
			}
			return fmt.Errorf("insert medical note: %w", err)
		}
		if err := touchRecord(ctx, tx, n.RecordID, at); err != nil {
			return err
		}
		out, err = getNote(ctx, tx, id)
		return err
	})
	return out, err
}

func (r *RecordsRepo) GetNote(ctx context.Context, id int64) (records.Note, error) {
	return getNote(ctx, r.db, id)
}

func (r *RecordsRepo) UpdateNote(ctx context.Context, id int64, content string, at time.Time) (records.Note, error) {
	var out records.Note
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := psql.Update(notesTable).
			Set("content", content).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING record_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		var recordID int64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&recordID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return records.ErrNoteNotFound
			}
			return fmt.Errorf("update medical note: %w", err)
		}
		if err := touchRecord(ctx, tx, recordID, at); err != nil {
			return err
		}
		out, err = getNote(ctx, tx, id)
		return err
	})
	return out, err
}

func (r *RecordsRepo) DeleteNote(ctx context.Context, id int64, at time.Time) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := psql.Delete(notesTable).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING record_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		var recordID int64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&recordID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return records.ErrNoteNotFound
			}
			return fmt.Errorf("delete medical note: %w", err)
		}
		return touchRecord(ctx, tx, recordID, at)
	})
}

func (r *RecordsRepo) ListNotes(ctx context.Context, recordID int64) ([]records.Note, error) {
	query, args, err := notesSelect().
		Where(sq.Eq{"n.record_id": recordID}).
		OrderBy("n.created_at DESC", "n.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []noteRow
	if err := sqlscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list medical notes: %w", err)
	}
	out := make([]records.Note, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
