package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocptv/internal/store"
)

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// To regenerate: go test ./internal/cli -update
func TestRun_StdoutGolden(t *testing.T) {
	stdout, _, err := executeCommand(newTestRunCommand(), memcheckScenario)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "run result FAIL")

	newGolden(t).Assert(t, "run_memcheck", []byte(stdout))
}

func TestRun_OutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	stdout, _, err := executeCommand(newTestRunCommand(), "--out", path, memcheckScenario)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Empty(t, stdout, "output goes to the file only")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	newGolden(t).Assert(t, "run_memcheck", data)
}

func TestRun_RecordsSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ocptv.db")

	stdout, stderr, err := executeCommand(newTestRunCommand("session-1"), "--db", dbPath, memcheckScenario)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, 16, strings.Count(stdout, "\n"))
	assert.Contains(t, stderr, "session=session-1")
	assert.Contains(t, stderr, "result=FAIL")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	sessions, err := st.Sessions(t.Context())
	require.NoError(t, err)
	require.Equal(t, []store.Session{{ID: "session-1", Label: "memcheck", Artifacts: 16}}, sessions)

	stored, err := st.ReadSession(t.Context(), "session-1")
	require.NoError(t, err)
	var lines []string
	for _, a := range stored {
		lines = append(lines, string(a.Line))
	}
	assert.Equal(t, stdout, strings.Join(lines, "\n")+"\n")
}

func TestRun_Label(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ocptv.db")

	_, _, err := executeCommand(newTestRunCommand("s1"), "--db", dbPath, "--label", "nightly", memcheckScenario)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	sessions, err := st.Sessions(t.Context())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "nightly", sessions[0].Label)
}

func TestRun_PassExitsZero(t *testing.T) {
	stdout, _, err := executeCommand(newTestRunCommand(), "testdata/scenarios/pass.yaml")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[3], `"message":"pong"`)
	assert.Contains(t, lines[5], `"testRunEnd":{"result":"PASS","status":"COMPLETE"}`)
}

func TestRun_VerboseMirrorsArtifacts(t *testing.T) {
	cmd := newRunCommand(&RunOptions{RootOptions: &RootOptions{Format: "text", Verbose: true}})

	_, stderr, err := executeCommand(cmd, "testdata/scenarios/pass.yaml")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG msg=\"scenario loaded\" name=smoke steps=1")
	assert.Equal(t, 6, strings.Count(stderr, "msg=ocptv artifact="))
}

func TestRun_CommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing scenario", []string{"testdata/scenarios/nope.yaml"}, "failed to load scenario"},
		{"invalid scenario", []string{"testdata/scenarios/broken.yaml"}, `unknown hardware "missing"`},
		{"bad out dir", []string{"--out", filepath.Join(t.TempDir(), "no", "such", "out.jsonl"), memcheckScenario}, "failed to open output"},
		{"bad db dir", []string{"--db", filepath.Join(t.TempDir(), "no", "such", "db"), memcheckScenario}, "failed to open database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(newTestRunCommand("s"), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
