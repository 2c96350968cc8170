package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldLogger names the component that emitted a record (poller, reviewapi, notifier).
	FieldLogger = "logger"
	// FieldCycleID correlates every record produced by one polling cycle.
	FieldCycleID = "cycle_id"
	// FieldRunID identifies the process run and matches the run log file name.
	FieldRunID = "run_id"
	// FieldEventType is a stable machine-readable tag for the event being logged.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldErrorKind carries homework.KindOf for cycle failures.
	FieldErrorKind = "error_kind"
)

type cycleIDKey struct{}

// WithCycleID stores a cycle correlation identifier on the context.
func WithCycleID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cycleIDKey{}, id)
}

// CycleIDFromContext returns the cycle identifier stored by WithCycleID.
func CycleIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(cycleIDKey{}).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if id, ok := CycleIDFromContext(ctx); ok {
		return []slog.Attr{slog.String(FieldCycleID, id)}
	}
	return nil
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
