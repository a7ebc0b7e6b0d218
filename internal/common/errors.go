// Package common defines shared sentinel errors used across the kiosk's
// repositories and services. Callers should use errors.Is to match these
// values; any other error coming out of a repository is a persistence
// failure wrapping the underlying driver error.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrorDuplicateTimestamp = errors.New("duplicate login timestamp")

	// ErrorNoOpenSession means a logout was attempted while the ledger holds
	// no open entry for the user. The directory status and the ledger
	// disagree; the caller must drop the scan rather than fabricate a session.
	ErrorNoOpenSession = errors.New("no open session")
)
