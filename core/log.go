package core

import (
	"context"
	"log/slog"
)

// Slog wraps a Term as a slog.LogValuer to not render terms
// unless they definitely need to be logged
func Slog(term Term) slog.LogValuer {
	return termLogValuer{term}
}

type termLogValuer struct{ Term }

func (l termLogValuer) LogValue() slog.Value {
	return slog.StringValue(TermString(l.Term))
}

// TermHandler is a slog.Handler capable of lazy-printing core terms
func TermHandler(underlying slog.Handler) slog.Handler {
	return &termLogHandler{underlying: underlying}
}

func TermLogger(underlying *slog.Logger) *slog.Logger {
	return slog.New(TermHandler(underlying.Handler()))
}

type termLogHandler struct {
	underlying slog.Handler
}

func wrapAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindAny {
		if asTerm, isTerm := attr.Value.Any().(Term); isTerm {
			attr.Value = slog.AnyValue(Slog(asTerm))
		}
	}
	return attr
}

func (l *termLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *termLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(wrapAttr(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *termLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		wrapped[i] = wrapAttr(attr)
	}
	return TermHandler(l.underlying.WithAttrs(wrapped))
}

func (l *termLogHandler) WithGroup(name string) slog.Handler {
	return TermHandler(l.underlying.WithGroup(name))
}
