package testutil

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ocptv/internal/model"
)

// MemoryWriter captures output lines in memory.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type MemoryWriter struct {
	mu    sync.Mutex
	lines []string
	err   error
}

// NewMemoryWriter creates an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

// Write implements output.Writer.
func (w *MemoryWriter) Write(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.lines = append(w.lines, string(line))
	return nil
}

// FailWith makes every following Write return err. Pass nil to recover.
func (w *MemoryWriter) FailWith(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
}

// Lines returns a copy of the captured lines.
func (w *MemoryWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.lines...)
}

// Len returns the number of captured lines.
func (w *MemoryWriter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.lines)
}

// String returns the captured lines as a JSONL document.
func (w *MemoryWriter) String() string {
	lines := w.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Decoded unmarshals line i into a generic map.
func (w *MemoryWriter) Decoded(t testing.TB, i int) map[string]any {
	t.Helper()
	lines := w.Lines()
	require.Less(t, i, len(lines), "line %d not written", i)

	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[i]), &obj))
	return obj
}

// Info parses the envelope of line i.
func (w *MemoryWriter) Info(t testing.TB, i int) model.LineInfo {
	t.Helper()
	lines := w.Lines()
	require.Less(t, i, len(lines), "line %d not written", i)

	info, err := model.ParseLine([]byte(lines[i]))
	require.NoError(t, err)
	return info
}

// Artifact returns line i with the sequenceNumber and timestamp fields
// removed, so it can be compared with assert.JSONEq.
func (w *MemoryWriter) Artifact(t testing.TB, i int) string {
	t.Helper()
	obj := w.Decoded(t, i)
	delete(obj, "sequenceNumber")
	delete(obj, "timestamp")
	out, err := json.Marshal(obj)
	require.NoError(t, err)
	return string(out)
}
