// Package observability builds the process logger and carries per-build
// log attributes on a context.Context.
package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// LogContext is the set of attributes every context-aware log line gets.
type LogContext struct {
	BuildID string
	Stage   string
	Page    string
}

func (lc LogContext) attrs() []slog.Attr {
	var out []slog.Attr
	for _, f := range []struct {
		v    string
		attr func(string) slog.Attr
	}{
		{lc.BuildID, logfields.BuildID},
		{lc.Stage, logfields.Stage},
		{lc.Page, logfields.Page},
	} {
		if f.v != "" {
			out = append(out, f.attr(f.v))
		}
	}
	return out
}

type ctxKey struct{}

// NewLogger returns a JSON logger when format is "json" and a text logger
// otherwise, filtered at ParseLevel(level).
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel accepts the slog level names plus "warning". Anything else is info.
func ParseLevel(level string) slog.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func update(ctx context.Context, set func(*LogContext)) context.Context {
	lc := GetContext(ctx)
	set(&lc)
	return context.WithValue(ctx, ctxKey{}, lc)
}

func WithBuildID(ctx context.Context, id string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.BuildID = id })
}

func WithStage(ctx context.Context, stage string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Stage = stage })
}

// WithPage records the target folder of the page being built.
func WithPage(ctx context.Context, page string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Page = page })
}

// GetContext returns the zero LogContext when ctx carries none.
func GetContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(ctxKey{}).(LogContext)
	return lc
}

func logAt(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	slog.LogAttrs(ctx, level, msg, append(GetContext(ctx).attrs(), attrs...)...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelError, msg, attrs)
}
