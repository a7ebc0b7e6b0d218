// Package logging defines the minimal structured-logging interface used
// across the kiosk. The scan loop and the services log through it so that
// tests can substitute a silent or recording implementation.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "scan accepted", "code", code, "result", res)
type Logger interface {
	// Debug logs per-frame chatter (decode misses, suppressed repeats).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions (unrecognized codes,
	// recoverable per-frame failures).
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures and consistency violations.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs.
	With(args ...any) Logger
}
