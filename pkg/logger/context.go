package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

var loggerContextKey contextKey

// With attaches a child logger carrying the extra fields to the context, so
// everything logged downstream of a request keeps its trace id.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerContextKey, From(ctx).With(fields...))
}

// From returns the logger attached to the context, falling back to the
// process-wide logger when the request carries none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return l
	}
	return Default()
}
