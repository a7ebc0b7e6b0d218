package models

import "time"

// LoginEvent is one ledger entry. LoginTime is the primary key; LogoutTime
// stays nil while the session is open and is set exactly once on logout.
type LoginEvent struct {
	LoginTime  string
	LogoutTime *string
	UserCode   string
}

// Open reports whether the event still has no recorded logout.
func (e *LoginEvent) Open() bool {
	return e.LogoutTime == nil
}

// FormatTimestamp renders t as the ledger's key format. Nanosecond precision
// keeps consecutive events within one session from colliding on the
// timestamp primary key.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
