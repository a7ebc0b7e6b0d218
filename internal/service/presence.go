package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kioskworks/qrkiosk/internal/dbx"
	"github.com/kioskworks/qrkiosk/internal/logging"
	"github.com/kioskworks/qrkiosk/internal/models"
	"github.com/kioskworks/qrkiosk/internal/repositories/logins"
	"github.com/kioskworks/qrkiosk/internal/repositories/users"
)

// Result is the outcome of one accepted scan.
type Result int

const (
	ResultLoggedIn Result = iota + 1
	ResultLoggedOut
)

func (r Result) String() string {
	switch r {
	case ResultLoggedIn:
		return "Logged In"
	case ResultLoggedOut:
		return "Logged Out"
	default:
		return "unknown"
	}
}

// PresenceService decides, for one accepted scan, whether the user is
// logging in or out, flips the stored status, and appends the matching
// ledger event. The caller must have verified the code is whitelisted and
// must invoke Observe at most once per physical presentation; the service
// cannot tell a lingering QR code from a deliberate re-scan.
type PresenceService struct {
	db  *sql.DB
	log logging.Logger
}

func NewPresenceService(db *sql.DB, log logging.Logger) *PresenceService {
	return &PresenceService{db: db, log: log.With("component", "presence")}
}

// Observe performs one presence transition at the given instant. Unknown or
// Inactive users become Active with a new open ledger event; Active users
// become Inactive and their open event is closed. The status write and the
// ledger write commit together or not at all.
func (s *PresenceService) Observe(ctx context.Context, code string, now time.Time) (Result, error) {
	timestamp := models.FormatTimestamp(now)

	var result Result
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := users.NewSQLiteRepository(tx)
		ledger := logins.NewSQLiteRepository(tx)

		status, err := userRepo.GetStatus(ctx, code)
		if err != nil {
			return fmt.Errorf("error reading status: %w", err)
		}

		switch status {
		case models.StatusActive:
			result = ResultLoggedOut
			if err := userRepo.SetStatus(ctx, code, models.StatusInactive); err != nil {
				return fmt.Errorf("error setting status: %w", err)
			}
			if err := ledger.RecordLogout(ctx, code, timestamp); err != nil {
				return err
			}
		default: // StatusUnset, StatusInactive
			result = ResultLoggedIn
			if err := userRepo.SetStatus(ctx, code, models.StatusActive); err != nil {
				return fmt.Errorf("error setting status: %w", err)
			}
			if err := ledger.RecordLogin(ctx, code, timestamp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "presence transition", "code", code, "result", result.String(), "timestamp", timestamp)
	return result, nil
}
