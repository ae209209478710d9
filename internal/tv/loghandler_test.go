package tv

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocptv/internal/model"
)

type logEntry struct {
	severity model.LogSeverity
	message  string
}

type sinkRecorder struct {
	entries []logEntry
	err     error
}

func (s *sinkRecorder) AddLog(severity model.LogSeverity, message string) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, logEntry{severity, message})
	return nil
}

func TestSeverityForLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  model.LogSeverity
	}{
		{slog.LevelDebug, model.SeverityDebug},
		{slog.LevelInfo, model.SeverityInfo},
		{slog.LevelWarn, model.SeverityWarning},
		{slog.LevelError, model.SeverityError},
		{slog.LevelError + 4, model.SeverityFatal},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityForLevel(tt.level))
		})
	}
}

func TestLogHandlerFormatsAttrs(t *testing.T) {
	sink := &sinkRecorder{}
	logger := slog.New(NewLogHandler(sink, slog.LevelDebug))

	logger.With("dimm", 3).WithGroup("ecc").Warn("correctable", "count", 12)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, logEntry{model.SeverityWarning, "correctable dimm=3 ecc.count=12"}, sink.entries[0])
}

func TestLogHandlerNestedGroupAttr(t *testing.T) {
	sink := &sinkRecorder{}
	logger := slog.New(NewLogHandler(sink, nil))

	logger.Info("link", slog.Group("pcie", slog.Int("width", 16)))

	require.Len(t, sink.entries, 1)
	assert.Equal(t, "link pcie.width=16", sink.entries[0].message)
}

func TestLogHandlerDropsBelowLevel(t *testing.T) {
	sink := &sinkRecorder{}
	logger := slog.New(NewLogHandler(sink, nil))

	logger.Debug("hidden")
	logger.Info("shown")

	require.Len(t, sink.entries, 1)
	assert.Equal(t, "shown", sink.entries[0].message)
}

func TestLogHandlerIntoStep(t *testing.T) {
	em := &recordingEmitter{}
	step := NewTestStep("s", 9, em)
	logger := slog.New(NewLogHandler(step, nil))

	logger.Error("fan stalled")

	require.Len(t, em.artifacts, 1)
	assert.Equal(t, model.StepArtifact{
		StepID: "9",
		Record: model.Log{Severity: model.SeverityError, Message: "fan stalled"},
	}, em.artifacts[0])
}

func TestLogHandlerReturnsSinkError(t *testing.T) {
	boom := errors.New("closed")
	h := NewLogHandler(&sinkRecorder{err: boom}, nil)

	rec := slog.Record{Level: slog.LevelInfo, Message: "x"}
	assert.ErrorIs(t, h.Handle(t.Context(), rec), boom)
}
