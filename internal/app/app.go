// Package app wires the kiosk together: it opens the store, applies the
// schema, seeds the demo users, and runs the scan loop until the quit key is
// pressed or the process is signalled.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"golang.org/x/term"

	"github.com/kioskworks/qrkiosk/internal/config"
	"github.com/kioskworks/qrkiosk/internal/filex"
	"github.com/kioskworks/qrkiosk/internal/logging"
	"github.com/kioskworks/qrkiosk/internal/migrations"
	"github.com/kioskworks/qrkiosk/internal/provision"
	"github.com/kioskworks/qrkiosk/internal/scan"
	"github.com/kioskworks/qrkiosk/internal/service"
	"github.com/kioskworks/qrkiosk/internal/snapshot"

	_ "modernc.org/sqlite"
)

// QuitKey stops the kiosk when pressed on the console.
const QuitKey = 'q'

// RunMigrations applies the embedded schema migrations. A failure here is
// fatal to startup: the kiosk cannot run without its tables.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// OpenDatabase opens (creating if needed) the SQLite store at dsn and
// applies the schema.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if dir := filepath.Dir(dsn); dir != "." {
		if err := filex.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// single local store, single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// App owns the kiosk's resources for one run.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	db     *sql.DB
	source scan.FrameSource
	loop   *scan.Loop
}

func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := OpenDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	directory := service.NewDirectoryService(db, provision.NewQRWriter(cfg.QRImageDir), log)
	presence := service.NewPresenceService(db, log)

	if err := seedDemoUsers(ctx, directory); err != nil {
		_ = db.Close()
		return nil, err
	}

	source, err := scan.NewDirSource(cfg.FrameDir, cfg.FramePollInterval)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	loop := scan.NewLoop(
		source,
		scan.NewQRDecoder(),
		directory,
		presence,
		snapshot.NewWriter(cfg.LogImageDir),
		cfg.ValidationDelay,
		log,
	)

	return &App{cfg: cfg, log: log, db: db, source: source, loop: loop}, nil
}

// seedDemoUsers registers the two built-in users on every start. AddUser is
// idempotent, so restarts change nothing.
func seedDemoUsers(ctx context.Context, directory *service.DirectoryService) error {
	if err := directory.AddUser(ctx, "h65ld310", "John", "Buck", "jbuck@gmail.com"); err != nil {
		return err
	}
	return directory.AddUser(ctx, "d08ae169", "Jane", "Doe", "jdoe@gmail.com")
}

// Run drives the scan loop until the quit key, a signal, or frame-source
// exhaustion. Returns nil on graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.watchQuitKey(ctx, cancel)

	err := a.loop.Run(ctx)

	if cerr := a.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// watchQuitKey puts the console into raw mode and cancels the run when the
// quit key (or Ctrl-C) is typed. Skipped when stdin is not a terminal.
func (a *App) watchQuitKey(ctx context.Context, cancel context.CancelFunc) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		a.log.Warn(ctx, "cannot watch quit key", "error", err)
		return
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n > 0 && (buf[0] == QuitKey || buf[0] == 0x03) {
			a.log.Info(ctx, "quit key pressed")
			cancel()
			return
		}
	}
}

// Close releases the store and the frame source.
func (a *App) Close() error {
	var firstErr error
	if err := a.source.Close(); err != nil {
		firstErr = err
	}
	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
