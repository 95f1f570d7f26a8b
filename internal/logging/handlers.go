package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler forwards each record to every child handler that accepts its
// level. Errors from individual children are joined.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) slog.Handler {
	filtered := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	switch len(filtered) {
	case 0:
		return NoopHandler{}
	case 1:
		return filtered[0]
	}
	return fanoutHandler{handlers: filtered}
}

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return fanoutHandler{handlers: next}
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return fanoutHandler{handlers: next}
}

// TeeLogger returns a logger that writes to both base and extra. Either may be
// nil, in which case the other is returned unchanged.
func TeeLogger(base, extra *slog.Logger) *slog.Logger {
	switch {
	case base == nil && extra == nil:
		return NewNop()
	case base == nil:
		return extra
	case extra == nil:
		return base
	}
	return slog.New(newFanoutHandler(base.Handler(), extra.Handler()))
}

// sessionHandler adds session_id to every record unless the record already
// has one.
type sessionHandler struct {
	inner     slog.Handler
	sessionID string
}

func newSessionHandler(inner slog.Handler, sessionID string) slog.Handler {
	if inner == nil || sessionID == "" {
		return inner
	}
	return sessionHandler{inner: inner, sessionID: sessionID}
}

func (h sessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h sessionHandler) Handle(ctx context.Context, record slog.Record) error {
	present := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == FieldSessionID {
			present = true
			return false
		}
		return true
	})
	if !present {
		record = record.Clone()
		record.AddAttrs(slog.String(FieldSessionID, h.sessionID))
	}
	return h.inner.Handle(ctx, record)
}

func (h sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return sessionHandler{inner: h.inner.WithAttrs(attrs), sessionID: h.sessionID}
}

func (h sessionHandler) WithGroup(name string) slog.Handler {
	return sessionHandler{inner: h.inner.WithGroup(name), sessionID: h.sessionID}
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
