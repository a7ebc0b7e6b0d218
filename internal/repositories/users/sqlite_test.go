package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskworks/qrkiosk/internal/common"
	"github.com/kioskworks/qrkiosk/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE Users (
  code      TEXT PRIMARY KEY NOT NULL UNIQUE,
  firstName TEXT NOT NULL,
  lastName  TEXT NOT NULL,
  email     TEXT NOT NULL,
  status    TEXT
);
`)
	require.NoError(t, err)

	return db
}

func johnBuck() *models.User {
	return &models.User{
		Code:      "h65ld310",
		FirstName: "John",
		LastName:  "Buck",
		Email:     "jbuck@gmail.com",
	}
}

func TestAdd_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	created, err := r.Add(ctx, johnBuck())
	require.NoError(t, err)
	assert.True(t, created)

	got, err := r.GetByCode(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, "h65ld310", got.Code)
	assert.Equal(t, "John", got.FirstName)
	assert.Equal(t, "Buck", got.LastName)
	assert.Equal(t, "jbuck@gmail.com", got.Email)
	assert.Equal(t, models.StatusUnset, got.Status, "new users start with no status")
}

func TestAdd_IdempotentOnExistingCode(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	created, err := r.Add(ctx, johnBuck())
	require.NoError(t, err)
	require.True(t, created)

	// same code, different descriptive fields: record must stay untouched
	dup := johnBuck()
	dup.FirstName = "Johnny"
	created, err = r.Add(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := r.GetByCode(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, "John", got.FirstName)
}

func TestGetByCode_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByCode(context.Background(), "unknownQR")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestWhitelist_ContainsExactlyAddedCodes(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Add(ctx, johnBuck())
	require.NoError(t, err)
	_, err = r.Add(ctx, &models.User{Code: "d08ae169", FirstName: "Jane", LastName: "Doe", Email: "jdoe@gmail.com"})
	require.NoError(t, err)

	codes, err := r.Whitelist(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"h65ld310", "d08ae169"}, codes)

	ok, err := r.IsWhitelisted(ctx, "h65ld310")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsWhitelisted(ctx, "unknownQR")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatus_SetAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Add(ctx, johnBuck())
	require.NoError(t, err)

	status, err := r.GetStatus(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnset, status)

	require.NoError(t, r.SetStatus(ctx, "h65ld310", models.StatusActive))
	status, err = r.GetStatus(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)

	require.NoError(t, r.SetStatus(ctx, "h65ld310", models.StatusInactive))
	status, err = r.GetStatus(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, status)
}

func TestStatus_UnknownCode(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := r.SetStatus(ctx, "unknownQR", models.StatusActive)
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	_, err = r.GetStatus(ctx, "unknownQR")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
