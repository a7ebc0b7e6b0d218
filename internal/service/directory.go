// Package service contains the kiosk's business logic: the user directory
// with its provisioning side effect, and the presence state machine that
// flips a user's status and writes the matching ledger event atomically.
package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kioskworks/qrkiosk/internal/logging"
	"github.com/kioskworks/qrkiosk/internal/models"
	"github.com/kioskworks/qrkiosk/internal/repositories/users"
)

// Provisioner produces a scannable QR image for a newly registered code.
type Provisioner interface {
	Generate(code, filename string) error
}

// DirectoryService owns user registration and whitelist membership.
type DirectoryService struct {
	db          *sql.DB
	provisioner Provisioner
	log         logging.Logger
}

func NewDirectoryService(db *sql.DB, p Provisioner, log logging.Logger) *DirectoryService {
	return &DirectoryService{db: db, provisioner: p, log: log.With("component", "directory")}
}

// AddUser registers a user if the code is new and generates the user's
// provisioning QR image. Re-adding an existing code leaves the record
// untouched and generates nothing.
func (s *DirectoryService) AddUser(ctx context.Context, code, firstName, lastName, email string) error {
	repo := users.NewSQLiteRepository(s.db)

	created, err := repo.Add(ctx, &models.User{
		Code:      code,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	})
	if err != nil {
		return fmt.Errorf("error adding user: %w", err)
	}
	if !created {
		return nil
	}

	filename := firstName + lastName + ".png"
	if err := s.provisioner.Generate(code, filename); err != nil {
		return fmt.Errorf("error generating provisioning image: %w", err)
	}

	s.log.Info(ctx, "user registered", "code", code, "image", filename)
	return nil
}

// GetUser returns the user record or common.ErrorNotFound.
func (s *DirectoryService) GetUser(ctx context.Context, code string) (*models.User, error) {
	return users.NewSQLiteRepository(s.db).GetByCode(ctx, code)
}

// IsWhitelisted reports whether code may trigger presence transitions. The
// membership test reads the store directly, so codes added while the kiosk
// runs are recognized without a restart.
func (s *DirectoryService) IsWhitelisted(ctx context.Context, code string) (bool, error) {
	return users.NewSQLiteRepository(s.db).IsWhitelisted(ctx, code)
}

// Whitelist returns every registered access code.
func (s *DirectoryService) Whitelist(ctx context.Context) ([]string, error) {
	return users.NewSQLiteRepository(s.db).Whitelist(ctx)
}

// GetStatus returns the user's presence status.
func (s *DirectoryService) GetStatus(ctx context.Context, code string) (models.Status, error) {
	return users.NewSQLiteRepository(s.db).GetStatus(ctx, code)
}
