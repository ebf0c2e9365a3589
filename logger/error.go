package logger

import (
	"context"
	"log/slog"
	"time"
)

// AnnotateError wraps an error with slog key-value pairs. When the error (or any error
// wrapping or joining it) is logged through a handler from NewHandler, the pairs are
// added to the record. Returns nil if err is nil.
//
//	return logger.AnnotateError(err, "index", i, "category", cat)
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	r := slog.NewRecord(time.Time{}, slog.LevelDebug, "", 0)
	r.Add(args...)

	attrs := make([]slog.Attr, 0, r.NumAttrs())

	r.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)

		return true
	})

	return &annotatedError{err: err, attrs: attrs}
}

// Attrs returns every attribute attached with AnnotateError anywhere in err's tree,
// outermost first.
func Attrs(err error) []slog.Attr {
	var out []slog.Attr

	walkErrors(err, func(e error) {
		if ae, ok := e.(*annotatedError); ok {
			out = append(out, ae.attrs...)
		}
	})

	return out
}

func walkErrors(err error, visit func(error)) {
	if err == nil {
		return
	}

	visit(err)

	switch e := err.(type) { //nolint:errorlint
	case interface{ Unwrap() error }:
		walkErrors(e.Unwrap(), visit)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			walkErrors(inner, visit)
		}
	}
}

type annotatedError struct {
	err   error
	attrs []slog.Attr
}

func (a *annotatedError) Error() string {
	return a.err.Error()
}

func (a *annotatedError) Unwrap() error {
	return a.err
}

// errorHandler is a slog.Handler decorator that lifts the attributes of annotated errors
// into the record, after the record's own attributes.
type errorHandler struct {
	inner slog.Handler
}

var _ slog.Handler = (*errorHandler)(nil)

func (h *errorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *errorHandler) Handle(ctx context.Context, record slog.Record) error {
	var (
		attrs   []slog.Attr
		lifted  []slog.Attr
		changed bool
	)

	record.Attrs(func(attr slog.Attr) bool {
		err, ok := attr.Value.Any().(error)
		if !ok {
			attrs = append(attrs, attr)

			return true
		}

		extra := Attrs(err)
		if len(extra) == 0 {
			attrs = append(attrs, attr)

			return true
		}

		changed = true

		attrs = append(attrs, slog.String(attr.Key, err.Error()))
		lifted = append(lifted, extra...)

		return true
	})

	if !changed {
		return h.inner.Handle(ctx, record)
	}

	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	r.AddAttrs(attrs...)
	r.AddAttrs(lifted...)

	return h.inner.Handle(ctx, r)
}

func (h *errorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *errorHandler) WithGroup(name string) slog.Handler {
	return &errorHandler{inner: h.inner.WithGroup(name)}
}
