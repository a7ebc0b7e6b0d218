package models

import "time"

// Detection is one accepted, deduplicated observation of an access code.
// Frames with no decodable code never produce a Detection; they are the
// "no detection" arm handled before one of these is constructed.
type Detection struct {
	Code string
	At   time.Time
}

// Timestamp returns the detection's ledger key.
func (d Detection) Timestamp() string {
	return FormatTimestamp(d.At)
}
