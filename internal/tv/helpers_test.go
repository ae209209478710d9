package tv

import (
	"testing"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/testutil"
)

// recordingEmitter keeps the artifacts handed to it, or fails with err.
type recordingEmitter struct {
	artifacts []model.RootArtifact
	err       error
}

func (e *recordingEmitter) Emit(a model.RootArtifact) error {
	if e.err != nil {
		return e.err
	}
	e.artifacts = append(e.artifacts, a)
	return nil
}

func (e *recordingEmitter) steps(t *testing.T) []model.StepArtifact {
	t.Helper()
	out := make([]model.StepArtifact, 0, len(e.artifacts))
	for _, a := range e.artifacts {
		sa, ok := a.(model.StepArtifact)
		if !ok {
			t.Fatalf("expected step artifact, got %T", a)
		}
		out = append(out, sa)
	}
	return out
}

// newTestRunForTest builds a run writing to memory with deterministic time.
func newTestRunForTest(name string, opts ...RunOption) (*TestRun, *testutil.MemoryWriter) {
	w := testutil.NewMemoryWriter()
	base := []RunOption{
		WithWriter(w),
		WithRunClock(testutil.NewDeterministicClock()),
		WithCommandLine("cl"),
	}
	return NewTestRun(name, "1.0", append(base, opts...)...), w
}
