package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kioskworks/qrkiosk/internal/common"
	"github.com/kioskworks/qrkiosk/internal/dbx"
	"github.com/kioskworks/qrkiosk/internal/models"
)

// SQLiteRepository implements Repository over a DBTX, so the same code runs
// against *sql.DB or inside a transaction handle.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// statusToNull maps StatusUnset to SQL NULL; the status column is nullable
// and NULL means "never scanned".
func statusToNull(s models.Status) sql.NullString {
	if s == models.StatusUnset {
		return sql.NullString{}
	}
	return sql.NullString{String: string(s), Valid: true}
}

func statusFromNull(ns sql.NullString) models.Status {
	if !ns.Valid {
		return models.StatusUnset
	}
	return models.Status(ns.String)
}

func (r *SQLiteRepository) Add(ctx context.Context, user *models.User) (bool, error) {
	query := `INSERT OR IGNORE INTO Users (code, firstName, lastName, email, status)
	          VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		user.Code, user.FirstName, user.LastName, user.Email, statusToNull(user.Status))
	if err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *SQLiteRepository) GetByCode(ctx context.Context, code string) (*models.User, error) {
	query := `SELECT code, firstName, lastName, email, status FROM Users WHERE code = ?`

	u := &models.User{}
	var status sql.NullString
	err := r.db.QueryRowContext(ctx, query, code).
		Scan(&u.Code, &u.FirstName, &u.LastName, &u.Email, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	u.Status = statusFromNull(status)
	return u, nil
}

func (r *SQLiteRepository) Whitelist(ctx context.Context) ([]string, error) {
	query := `SELECT code FROM Users`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select whitelist: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

func (r *SQLiteRepository) IsWhitelisted(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM Users WHERE code = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check whitelist: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) GetStatus(ctx context.Context, code string) (models.Status, error) {
	query := `SELECT status FROM Users WHERE code = ?`

	var status sql.NullString
	err := r.db.QueryRowContext(ctx, query, code).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StatusUnset, common.ErrorNotFound
		}
		return models.StatusUnset, fmt.Errorf("failed to select status: %w", err)
	}

	return statusFromNull(status), nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, code string, status models.Status) error {
	query := `UPDATE Users SET status = ? WHERE code = ?`

	res, err := r.db.ExecContext(ctx, query, statusToNull(status), code)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
