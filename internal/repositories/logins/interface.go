package logins

import (
	"context"

	"github.com/kioskworks/qrkiosk/internal/models"
)

// Repository is the activity ledger: an append-only record of login/logout
// events keyed by the login timestamp. Entries are closed exactly once and
// never deleted.
type Repository interface {
	// RecordLogin inserts a new open event (no logout time). Returns
	// common.ErrorDuplicateTimestamp if the timestamp key already exists.
	RecordLogin(ctx context.Context, userCode, timestamp string) error

	// RecordLogout closes the user's open event by setting its logout time.
	// Returns common.ErrorNoOpenSession if the user has no open event.
	RecordLogout(ctx context.Context, userCode, timestamp string) error

	// OpenSession returns the user's open event, or common.ErrorNotFound
	// if the user is not currently logged in.
	OpenSession(ctx context.Context, userCode string) (*models.LoginEvent, error)

	// CountOpen returns the number of open events for the user. The ledger
	// invariant keeps this at 0 or 1.
	CountOpen(ctx context.Context, userCode string) (int, error)

	// History returns all of the user's events, newest first.
	History(ctx context.Context, userCode string) ([]models.LoginEvent, error)
}
