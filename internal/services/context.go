package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	fileIndexKey contextKey = "file_index"
	fileNameKey  contextKey = "file_name"
	phaseKey     contextKey = "phase"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(runIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithFile annotates context with the file currently being processed.
func WithFile(ctx context.Context, index int, name string) context.Context {
	ctx = context.WithValue(ctx, fileIndexKey, index)
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, fileNameKey, name)
}

// FileFromContext returns the file index and name if present.
func FileFromContext(ctx context.Context) (int, string, bool) {
	index, ok := ctx.Value(fileIndexKey).(int)
	if !ok {
		return 0, "", false
	}
	name, _ := ctx.Value(fileNameKey).(string)
	return index, name, true
}

// WithPhase annotates context with the per-file phase (encode, compare, manage).
func WithPhase(ctx context.Context, phase string) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the phase name if present.
func PhaseFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(phaseKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
