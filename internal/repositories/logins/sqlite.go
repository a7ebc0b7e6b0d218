package logins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kioskworks/qrkiosk/internal/common"
	"github.com/kioskworks/qrkiosk/internal/dbx"
	"github.com/kioskworks/qrkiosk/internal/models"
)

// SQLiteRepository implements Repository over a DBTX, so the presence
// service can append to the ledger inside the same transaction that flips
// the directory status.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) RecordLogin(ctx context.Context, userCode, timestamp string) error {
	// The store has exactly one writer, so an existence probe before the
	// insert is race-free and gives a clean sentinel instead of a
	// driver-specific constraint error.
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM Logins WHERE timestamp = ?)`, timestamp).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check timestamp key: %w", err)
	}
	if exists {
		return common.ErrorDuplicateTimestamp
	}

	query := `INSERT INTO Logins (timestamp, userCode) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, timestamp, userCode); err != nil {
		return fmt.Errorf("failed to insert login event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RecordLogout(ctx context.Context, userCode, timestamp string) error {
	query := `UPDATE Logins SET logoutTime = ? WHERE userCode = ? AND logoutTime IS NULL`

	res, err := r.db.ExecContext(ctx, query, timestamp, userCode)
	if err != nil {
		return fmt.Errorf("failed to close login event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrorNoOpenSession
	}
	return nil
}

func (r *SQLiteRepository) OpenSession(ctx context.Context, userCode string) (*models.LoginEvent, error) {
	query := `SELECT timestamp, logoutTime, userCode FROM Logins
	          WHERE userCode = ? AND logoutTime IS NULL`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, userCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select open session: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) CountOpen(ctx context.Context, userCode string) (int, error) {
	query := `SELECT COUNT(*) FROM Logins WHERE userCode = ? AND logoutTime IS NULL`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userCode).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count open sessions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) History(ctx context.Context, userCode string) ([]models.LoginEvent, error) {
	query := `SELECT timestamp, logoutTime, userCode FROM Logins
	          WHERE userCode = ? ORDER BY timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, userCode)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []models.LoginEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.LoginEvent, error) {
	e := &models.LoginEvent{}
	var logout sql.NullString
	if err := row.Scan(&e.LoginTime, &logout, &e.UserCode); err != nil {
		return nil, err
	}
	if logout.Valid {
		e.LogoutTime = &logout.String
	}
	return e, nil
}
