package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocptv/internal/model"
)

func TestWriter_RoundTrip(t *testing.T) {
	s := createTestStore(t, "sess")
	ctx := context.Background()
	session, err := s.NewSession(ctx, "sample")
	require.NoError(t, err)

	lines := writeSampleRun(t, s, session)

	stored, err := s.ReadSession(ctx, session)
	require.NoError(t, err)
	require.Len(t, stored, len(lines))
	for i, a := range stored {
		assert.Equal(t, lines[i], string(a.Line))
		assert.Equal(t, int64(i), a.Seq)
		assert.Equal(t, model.ArtifactHash(a.Line), a.Hash)
		assert.Equal(t, session, a.Session)
	}

	assert.Equal(t, "schemaVersion", stored[0].Kind)
	assert.Equal(t, "testRunStart", stored[1].Record)
	assert.Equal(t, "log", stored[2].Record)
	assert.Empty(t, stored[2].StepID)
	assert.Equal(t, "testStepStart", stored[3].Record)
	assert.Equal(t, "0", stored[3].StepID)
	assert.Equal(t, "testRunEnd", stored[len(stored)-1].Record)
}

func TestWriter_Idempotent(t *testing.T) {
	s := createTestStore(t, "sess")
	ctx := context.Background()
	session, err := s.NewSession(ctx, "sample")
	require.NoError(t, err)

	lines := writeSampleRun(t, s, session)

	w := s.Writer(ctx, session)
	for _, line := range lines {
		require.NoError(t, w.Write([]byte(line)))
	}

	stored, err := s.ReadSession(ctx, session)
	require.NoError(t, err)
	assert.Len(t, stored, len(lines))
}

func TestWriter_UnknownSession(t *testing.T) {
	s := createTestStore(t)

	w := s.Writer(context.Background(), "nope")
	err := w.Write([]byte(`{"schemaVersion":{"major":2,"minor":0},"sequenceNumber":0,"timestamp":"2024-01-02T03:04:05.000000Z"}`))
	assert.Error(t, err)
}

func TestWriter_RejectsMalformedLine(t *testing.T) {
	s := createTestStore(t, "sess")
	ctx := context.Background()
	session, err := s.NewSession(ctx, "x")
	require.NoError(t, err)

	w := s.Writer(ctx, session)
	assert.Error(t, w.Write([]byte(`not json`)))
	assert.Error(t, w.Write([]byte(`{"timestamp":"2024-01-02T03:04:05.000000Z"}`)))
}

func TestWriter_CancelledContext(t *testing.T) {
	s := createTestStore(t, "sess")
	session, err := s.NewSession(context.Background(), "x")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := s.Writer(ctx, session)
	err = w.Write([]byte(`{"schemaVersion":{"major":2,"minor":0},"sequenceNumber":0,"timestamp":"2024-01-02T03:04:05.000000Z"}`))
	assert.ErrorIs(t, err, context.Canceled)
}
