package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/output"
	"github.com/roach88/ocptv/internal/testutil"
	"github.com/roach88/ocptv/internal/tv"
)

// createTestStore opens a fresh store in a temp dir with fixed session ids.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithSessionGenerator(NewFixedGenerator(ids...)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// writeSampleRun emits a one-step run into session and returns the lines
// that were written, in order.
func writeSampleRun(t *testing.T, s *Store, session string) []string {
	t.Helper()
	mem := testutil.NewMemoryWriter()
	w := s.Writer(context.Background(), session)

	run := tv.NewTestRun("sample", "1.0",
		tv.WithWriter(output.MultiWriter{mem, w}),
		tv.WithRunClock(testutil.NewDeterministicClock()),
		tv.WithCommandLine("sample"),
	)
	err := run.Scope(tv.NewDut("dut"), func(r *tv.TestRun) error {
		if err := r.AddLog(model.SeverityInfo, "run started"); err != nil {
			return err
		}
		return r.AddStep("check").Scope(func(st *tv.TestStep) error {
			return st.AddMeasurement("volts", model.Float(12.1))
		})
	})
	require.NoError(t, err)
	return mem.Lines()
}
