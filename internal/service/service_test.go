package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/kioskworks/qrkiosk/internal/logging"
	"github.com/kioskworks/qrkiosk/internal/migrations"

	_ "modernc.org/sqlite"
)

// setupDB opens an in-memory store with the real schema applied.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// one connection: each pooled conn would otherwise see its own memory DB
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))

	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeProvisioner records generation requests instead of writing images.
type fakeProvisioner struct {
	codes []string
	files []string
	err   error
}

func (p *fakeProvisioner) Generate(code, filename string) error {
	if p.err != nil {
		return p.err
	}
	p.codes = append(p.codes, code)
	p.files = append(p.files, filename)
	return nil
}
