package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

//go:embed schema.sql
var schema string

// psql arma queries con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate aplica el schema embebido. Es idempotente (IF NOT EXISTS).
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// constraintViolation devuelve el constraint violado si err es un 23503/23505 con ese code.
func constraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// Store agrupa los repositorios sobre un mismo pool.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Patients() *PatientsRepo         { return NewPatientsRepo(s.db) }
func (s *Store) Appointments() *AppointmentsRepo { return NewAppointmentsRepo(s.db) }
func (s *Store) Records() *RecordsRepo           { return NewRecordsRepo(s.db) }
func (s *Store) Staff() *StaffRepo               { return NewStaffRepo(s.db) }
func (s *Store) Accounts() *AccountsRepo         { return NewAccountsRepo(s.db) }

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
