package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"clinic-api/internal/domain/accounts"
)

const usersTable = "users"

var userColumns = []string{"id", "email", "password_hash", "roles", "staff_id", "created_at"}

// roles se guarda como lista separada por comas (nombres canónicos, sin comas).
type userRow struct {
	ID           string        `db:"id"`
	Email        string        `db:"email"`
	PasswordHash string        `db:"password_hash"`
	Roles        string        `db:"roles"`
	StaffID      sql.NullInt64 `db:"staff_id"`
	CreatedAt    time.Time     `db:"created_at"`
}

func (r userRow) toDomain() accounts.User {
	roles := []string{}
	if r.Roles != "" {
		roles = strings.Split(r.Roles, ",")
	}
	return accounts.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Roles:        roles,
		StaffID:      int64Ptr(r.StaffID),
		CreatedAt:    r.CreatedAt,
	}
}

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, u accounts.User) (accounts.User, error) {
	query, args, err := psql.Insert(usersTable).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.PasswordHash, strings.Join(u.Roles, ","), nullInt64(u.StaffID), u.CreatedAt).
		ToSql()
	if err != nil {
		return accounts.User{}, fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if _, ok := constraintViolation(err, codeUniqueViolation); ok {
			return accounts.User{}, accounts.ErrEmailTaken
		}
		return accounts.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *AccountsRepo) getOne(ctx context.Context, where sq.Sqlizer) (accounts.User, error) {
	query, args, err := psql.Select(userColumns...).From(usersTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return accounts.User{}, fmt.Errorf("build query: %w", err)
	}
	var row userRow
	if err := sqlscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return accounts.User{}, accounts.ErrNotFound
		}
		return accounts.User{}, fmt.Errorf("get user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	return r.getOne(ctx, sq.Expr("lower(email) = lower(?)", email))
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}
