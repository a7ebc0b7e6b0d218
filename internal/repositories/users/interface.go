package users

import (
	"context"

	"github.com/kioskworks/qrkiosk/internal/models"
)

// Repository is the user directory: registered users, their whitelist codes,
// and their current presence status. Implementations are backed by the local
// SQLite database.
type Repository interface {
	// Add inserts the user if the code is not already present and reports
	// whether a new row was created. Re-adding an existing code is a no-op,
	// not an error.
	Add(ctx context.Context, user *models.User) (created bool, err error)

	// GetByCode returns the user or common.ErrorNotFound.
	GetByCode(ctx context.Context, code string) (*models.User, error)

	// Whitelist returns every registered access code.
	Whitelist(ctx context.Context) ([]string, error)

	// IsWhitelisted reports whether code belongs to a registered user.
	IsWhitelisted(ctx context.Context, code string) (bool, error)

	// GetStatus returns the user's presence status, StatusUnset if the user
	// has never scanned, or common.ErrorNotFound for an unknown code.
	GetStatus(ctx context.Context, code string) (models.Status, error)

	// SetStatus overwrites the stored status. Returns common.ErrorNotFound
	// for an unknown code.
	SetStatus(ctx context.Context, code string, status models.Status) error
}
