package logging

import (
	"context"
	"log/slog"
	"strconv"

	"hevcpress/internal/services"
)

// Standard attribute keys.
const (
	FieldComponent    = "component"
	FieldRunID        = "run_id"
	FieldSessionID    = "session_id"
	FieldFile         = "file"
	FieldFileIndex    = "file_index"
	FieldPhase        = "phase"
	FieldEventType    = "event_type"
	FieldErrorHint    = "error_hint"
	FieldImpact       = "impact"
	FieldDecisionType = "decision_type"
	FieldAlert        = "alert"
)

// ContextFields extracts the run and file identity stored in ctx.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]Attr, 0, 4)
	if runID, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, String(FieldRunID, runID))
	}
	if index, name, ok := services.FileFromContext(ctx); ok {
		fields = append(fields,
			String(FieldFileIndex, strconv.Itoa(index)),
			String(FieldFile, name),
		)
	}
	if phase, ok := services.PhaseFromContext(ctx); ok {
		fields = append(fields, String(FieldPhase, phase))
	}
	return fields
}

// WithContext returns a logger annotated with the identity stored in ctx.
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
