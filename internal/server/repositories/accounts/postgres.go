package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/profilely/internal/common"
	"github.com/dmitrijs2005/profilely/internal/dbx"
	"github.com/dmitrijs2005/profilely/internal/server/models"
)

const emailUniqueIndex = "users_email_key"

const accountColumns = `id, first_name, last_name, email, password, is_superuser, is_verified, bio, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	a := &models.Account{}
	var bio sql.NullString
	err := s.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash,
		&a.IsSuperuser, &a.IsVerified, &bio, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if bio.Valid {
		a.Bio = &bio.String
	}
	return a, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string, verifiedOnly bool) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM users
		 WHERE email = $1 AND (is_verified OR NOT $2))
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, verifiedOnly).Scan(&exists); err != nil {
		return false, common.NewPersistenceError("db error", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM users
		 WHERE id = $1 AND is_verified)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, common.NewPersistenceError("db error", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO users (first_name, last_name, email, password, is_superuser, is_verified, bio)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.FirstName, a.LastName, a.Email, a.PasswordHash, a.IsSuperuser, a.IsVerified, a.Bio,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, emailUniqueIndex) {
			return nil, common.ErrConflict
		}
		return nil, common.NewPersistenceError("db error", err)
	}

	return a, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewPersistenceError("db error", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetVerifiedByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE email = $1 AND is_verified
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetContext(ctx context.Context, email string, forUpdate bool) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE email = $1
		 `
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetPublic(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE id = $1 AND is_verified
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetFull(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewPersistenceError("db error", err)
	}
	defer rows.Close()

	result := []*models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, common.NewPersistenceError("db error", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("db error", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListPublic(ctx context.Context, excludeID int64) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE id <> $1 AND is_verified
		 ORDER BY id
		 `
	return r.list(ctx, query, excludeID)
}

func (r *PostgresRepository) ListAll(ctx context.Context, excludeID int64) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		 WHERE id <> $1
		 ORDER BY id
		 `
	return r.list(ctx, query, excludeID)
}

// exec runs a mutation and reports common.ErrorNotFound when no row changed.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return common.NewPersistenceError("db error", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.NewPersistenceError("db error", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, email string, expectedUpdatedAt time.Time) error {
	query :=
		`UPDATE users SET is_verified = TRUE, updated_at = clock_timestamp()
		 WHERE email = $1 AND NOT is_verified AND updated_at = $2
		 `
	return r.exec(ctx, query, email, expectedUpdatedAt)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, hash string, expectedUpdatedAt *time.Time) error {
	if expectedUpdatedAt == nil {
		query :=
			`UPDATE users SET password = $2, updated_at = clock_timestamp()
			 WHERE email = $1 AND is_verified
			 `
		return r.exec(ctx, query, email, hash)
	}

	query :=
		`UPDATE users SET password = $2, updated_at = clock_timestamp()
		 WHERE email = $1 AND is_verified AND updated_at = $3
		 `
	return r.exec(ctx, query, email, hash, *expectedUpdatedAt)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, email string, upd models.ProfileUpdate) error {
	if upd.IsEmpty() {
		return nil
	}

	sets := make([]string, 0, 4)
	args := []any{email}
	add := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("first_name", upd.FirstName)
	add("last_name", upd.LastName)
	add("bio", upd.Bio)
	sets = append(sets, "updated_at = clock_timestamp()")

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + `
		 WHERE email = $1 AND is_verified
		 `
	return r.exec(ctx, query, args...)
}

func (r *PostgresRepository) DeleteVerified(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM users
		 WHERE id = $1 AND is_verified
		 `
	return r.exec(ctx, query, id)
}
