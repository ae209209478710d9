package tv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/ocptv/internal/model"
)

// LogSink receives log artifacts. TestRun and TestStep implement it.
type LogSink interface {
	AddLog(severity model.LogSeverity, message string) error
}

// LogHandler is a slog.Handler that turns log records into OCP log
// artifacts, letting code written against log/slog report into a run or step.
// Attributes are appended to the message as key=value pairs.
type LogHandler struct {
	sink   LogSink
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewLogHandler creates a handler writing to sink. Records below level are
// dropped; a nil level means slog.LevelInfo.
func NewLogHandler(sink LogSink, level slog.Leveler) *LogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{sink: sink, level: level}
}

// SeverityForLevel maps a slog level onto the OCP severities.
func SeverityForLevel(level slog.Level) model.LogSeverity {
	switch {
	case level < slog.LevelInfo:
		return model.SeverityDebug
	case level < slog.LevelWarn:
		return model.SeverityInfo
	case level < slog.LevelError:
		return model.SeverityWarning
	case level < slog.LevelError+4:
		return model.SeverityError
	default:
		return model.SeverityFatal
	}
}

// Enabled implements slog.Handler.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *LogHandler) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder
	b.WriteString(rec.Message)

	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, prefix, a)
		return true
	})

	return h.sink.AddLog(SeverityForLevel(rec.Level), b.String())
}

// WithAttrs implements slog.Handler.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return next
}

// WithGroup implements slog.Handler.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *LogHandler) clone() *LogHandler {
	return &LogHandler{
		sink:   h.sink,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Any())
}
