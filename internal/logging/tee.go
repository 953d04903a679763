package logging

import (
	"context"
	"log/slog"
)

// teeHandler sends each record to every child that accepts its level. The
// CLI uses it to pair readable console output with a JSON log file.
type teeHandler struct {
	children []slog.Handler
}

// Tee combines handlers, dropping nils. A single survivor is returned as is.
func Tee(handlers ...slog.Handler) slog.Handler {
	var children []slog.Handler
	for _, h := range handlers {
		if h != nil {
			children = append(children, h)
		}
	}
	switch len(children) {
	case 0:
		return NoopHandler{}
	case 1:
		return children[0]
	}
	return &teeHandler{children: children}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, child := range h.children {
		if child.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, child := range h.children {
		if !child.Enabled(ctx, record.Level) {
			continue
		}
		// Handlers may retain the record; each gets its own attr slice.
		if err := child.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(child slog.Handler) slog.Handler { return child.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.each(func(child slog.Handler) slog.Handler { return child.WithGroup(name) })
}

func (h *teeHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]slog.Handler, len(h.children))
	for i, child := range h.children {
		next[i] = fn(child)
	}
	return &teeHandler{children: next}
}
