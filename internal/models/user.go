// Package models holds the kiosk's persistent and transient record types:
// registered users, ledger entries, and accepted scan detections.
package models

// Status is a user's presence state. It takes exactly three values: Unset
// (never scanned), Active (currently logged in), and Inactive (logged out).
type Status string

const (
	// StatusUnset is the state of a user before their first-ever scan. It is
	// stored as SQL NULL.
	StatusUnset Status = ""

	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// User is one registered identity. Code is the opaque access code encoded
// into the user's QR image; it uniquely identifies the user.
type User struct {
	Code      string
	FirstName string
	LastName  string
	Email     string
	Status    Status
}
