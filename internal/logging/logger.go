// Package logging is the logging seam of the server: components depend on
// the Logger interface here, and the concrete handler (slog today) stays
// swappable behind it.
package logging

import "context"

// Logger is a context-aware structured logger. The variadic args are
// key/value pairs:
//
//	log.Info(ctx, "server started", "addr", addr)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for unusual but non-fatal conditions, like a failed
	// activation mail delivery.
	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given pairs,
	// typically a "module" tag.
	With(args ...any) Logger
}
