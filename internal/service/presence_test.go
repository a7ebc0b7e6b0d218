package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskworks/qrkiosk/internal/common"
	"github.com/kioskworks/qrkiosk/internal/models"
	"github.com/kioskworks/qrkiosk/internal/repositories/logins"
)

func addJohnBuck(t *testing.T, s *DirectoryService) {
	t.Helper()
	require.NoError(t, s.AddUser(context.Background(), "h65ld310", "John", "Buck", "jbuck@gmail.com"))
}

func TestObserve_TogglesStatusAndLedger(t *testing.T) {
	db := setupDB(t)
	dir := NewDirectoryService(db, &fakeProvisioner{}, testLogger())
	presence := NewPresenceService(db, testLogger())
	ledger := logins.NewSQLiteRepository(db)
	ctx := context.Background()

	addJohnBuck(t, dir)

	t0 := time.Date(2023, 7, 18, 9, 0, 0, 0, time.UTC)

	// first scan: unset -> active, one open event
	res, err := presence.Observe(ctx, "h65ld310", t0)
	require.NoError(t, err)
	assert.Equal(t, ResultLoggedIn, res)

	status, err := dir.GetStatus(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)

	open, err := ledger.OpenSession(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, models.FormatTimestamp(t0), open.LoginTime)
	assert.Nil(t, open.LogoutTime)

	// second scan: active -> inactive, the same event is closed in place
	t1 := t0.Add(8 * time.Hour)
	res, err = presence.Observe(ctx, "h65ld310", t1)
	require.NoError(t, err)
	assert.Equal(t, ResultLoggedOut, res)

	status, err = dir.GetStatus(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, status)

	history, err := ledger.History(ctx, "h65ld310")
	require.NoError(t, err)
	require.Len(t, history, 1, "logout must close the event, not create one")
	require.NotNil(t, history[0].LogoutTime)
	assert.Equal(t, models.FormatTimestamp(t1), *history[0].LogoutTime)
}

func TestObserve_InactiveToActiveOpensNewEvent(t *testing.T) {
	db := setupDB(t)
	dir := NewDirectoryService(db, &fakeProvisioner{}, testLogger())
	presence := NewPresenceService(db, testLogger())
	ledger := logins.NewSQLiteRepository(db)
	ctx := context.Background()

	addJohnBuck(t, dir)

	t0 := time.Date(2023, 7, 18, 9, 0, 0, 0, time.UTC)
	for i, want := range []Result{ResultLoggedIn, ResultLoggedOut, ResultLoggedIn, ResultLoggedOut} {
		res, err := presence.Observe(ctx, "h65ld310", t0.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.Equal(t, want, res)

		n, err := ledger.CountOpen(ctx, "h65ld310")
		require.NoError(t, err)
		require.LessOrEqual(t, n, 1, "never more than one open event")
	}

	history, err := ledger.History(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestObserve_UnknownCode(t *testing.T) {
	db := setupDB(t)
	presence := NewPresenceService(db, testLogger())
	ledger := logins.NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := presence.Observe(ctx, "unknownQR", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	history, err := ledger.History(ctx, "unknownQR")
	require.NoError(t, err)
	assert.Empty(t, history, "no ledger entry for unknown codes")
}

func TestObserve_LedgerFailureRollsBackStatus(t *testing.T) {
	db := setupDB(t)
	dir := NewDirectoryService(db, &fakeProvisioner{}, testLogger())
	presence := NewPresenceService(db, testLogger())
	ledger := logins.NewSQLiteRepository(db)
	ctx := context.Background()

	addJohnBuck(t, dir)

	// occupy the timestamp key so the ledger append inside Observe fails
	t0 := time.Date(2023, 7, 18, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ledger.RecordLogin(ctx, "d08ae169", models.FormatTimestamp(t0)))

	_, err := presence.Observe(ctx, "h65ld310", t0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorDuplicateTimestamp))

	// the status flip must have been rolled back with the failed append
	status, err := dir.GetStatus(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnset, status)

	n, err := ledger.CountOpen(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestObserve_LogoutWithNoOpenSession(t *testing.T) {
	db := setupDB(t)
	dir := NewDirectoryService(db, &fakeProvisioner{}, testLogger())
	presence := NewPresenceService(db, testLogger())
	ctx := context.Background()

	addJohnBuck(t, dir)

	// force a desync: status says active but the ledger holds nothing
	_, err := db.ExecContext(ctx, `UPDATE Users SET status = 'Active' WHERE code = 'h65ld310'`)
	require.NoError(t, err)

	_, err = presence.Observe(ctx, "h65ld310", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorNoOpenSession))

	// the scan is dropped whole: status must not have flipped
	status, err := dir.GetStatus(ctx, "h65ld310")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)
}
