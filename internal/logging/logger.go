// Package logging defines the structured, context-aware logger used by the
// Diarify binaries. The only implementation wraps log/slog.
package logging

import "context"

// Logger writes leveled messages with key-value attributes:
//
//	log.Info(ctx, "diary created", "diary_id", id, "images", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries args.
	With(args ...any) Logger
}
