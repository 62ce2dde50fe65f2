// Package logging defines the structured-logging interface used by the
// WellSta client layers and a log/slog backed implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "remote sync failed", "op", "like", "post_id", id, "err", err)
type Logger interface {
	// Debug logs diagnostic details (tick counts, cache hits).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning for degraded but non-fatal conditions, such as a
	// remote call that fell back to local state.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure of the local layer itself.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
