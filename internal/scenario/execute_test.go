package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/testutil"
	"github.com/roach88/ocptv/internal/tv"
)

func runScenario(t *testing.T, s *Scenario) (*Result, *testutil.MemoryWriter) {
	t.Helper()
	w := testutil.NewMemoryWriter()
	run := s.NewRun(tv.WithWriter(w), tv.WithRunClock(testutil.NewDeterministicClock()))
	res, err := Execute(context.Background(), s, run)
	require.NoError(t, err)
	return res, w
}

// To regenerate: go test ./internal/scenario -update
func TestExecute_Golden(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "scenarios", "memcheck.yaml"))
	require.NoError(t, err)

	res, w := runScenario(t, s)

	assert.Equal(t, model.StatusComplete, res.Status)
	assert.Equal(t, model.ResultFail, res.Result)
	assert.Equal(t, []StepResult{
		{Name: "read-temperature", ID: 0, Status: model.StatusComplete},
		{Name: "ecc-check", ID: 1, Status: model.StatusError},
	}, res.Steps)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "memcheck", []byte(w.String()))
}

func TestExecute_DefaultsToCompletePass(t *testing.T) {
	s, err := Parse([]byte(`
name: quick
version: "2"
dut: {id: d}
steps:
  - name: only
    actions:
      - log: {severity: DEBUG, message: hi}
`))
	require.NoError(t, err)

	res, w := runScenario(t, s)

	assert.Equal(t, model.ResultPass, res.Result)
	require.Equal(t, 6, w.Len())
	assert.JSONEq(t, `{"testStepArtifact":{"testStepId":"0","log":{"severity":"DEBUG","message":"hi"}}}`, w.Artifact(t, 3))
	assert.JSONEq(t, `{"testRunArtifact":{"testRunEnd":{"status":"COMPLETE","result":"PASS"}}}`, w.Artifact(t, 5))
}

func TestExecute_SkipStatus(t *testing.T) {
	s, err := Parse([]byte(`
name: quick
version: "2"
dut: {id: d}
steps:
  - name: skipped
    status: SKIP
`))
	require.NoError(t, err)

	res, w := runScenario(t, s)

	assert.Equal(t, model.StatusSkip, res.Steps[0].Status)
	assert.JSONEq(t, `{"testStepArtifact":{"testStepId":"0","testStepEnd":{"status":"SKIP"}}}`, w.Artifact(t, 3))
}

func TestExecute_FileSnapshotAndSubcomponent(t *testing.T) {
	s, err := Parse([]byte(`
name: quick
version: "2"
dut:
  id: d
  hardware: [{name: nic}]
steps:
  - name: io
    actions:
      - file: {name: pcap, uri: "file:///tmp/x.pcap", snapshot: false, metadata: {bytes: 10}}
      - measurement:
          name: link
          value: [1, 2]
          hardware: nic
          subcomponent: {name: port0, type: CONNECTOR}
`))
	require.NoError(t, err)

	_, w := runScenario(t, s)

	assert.JSONEq(t, `{"testStepArtifact":{"testStepId":"0","file":{
		"displayName":"pcap","uri":"file:///tmp/x.pcap","isSnapshot":false,"metadata":{"bytes":10}}}}`, w.Artifact(t, 3))
	assert.JSONEq(t, `{"testStepArtifact":{"testStepId":"0","measurement":{
		"name":"link","value":[1,2],"validators":[],"hardwareInfoId":"d_0",
		"subcomponent":{"name":"port0","type":"CONNECTOR"}}}}`, w.Artifact(t, 4))
}

func TestExecute_Extensions(t *testing.T) {
	s, err := Parse([]byte(`
name: quick
version: "2"
dut: {id: d}
steps:
  - name: vendor
    actions:
      - extension: {name: simple, content: extension_identifier}
      - extension:
          name: complex
          content:
            "@type": DemoExtension
            field: demo
            subtypes: [1, 42]
`))
	require.NoError(t, err)

	_, w := runScenario(t, s)

	assert.JSONEq(t, `{"testStepArtifact":{"testStepId":"0","extension":{
		"name":"simple","content":"extension_identifier"}}}`, w.Artifact(t, 3))
	assert.JSONEq(t, `{"testStepArtifact":{"testStepId":"0","extension":{
		"name":"complex","content":{"@type":"DemoExtension","field":"demo","subtypes":[1,42]}}}}`, w.Artifact(t, 4))
}

func TestExecute_CancelledContext(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "scenarios", "memcheck.yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := testutil.NewMemoryWriter()
	res, err := Execute(ctx, s, s.NewRun(tv.WithWriter(w)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)

	// preamble and testRunStart only; no end record
	assert.Equal(t, 2, w.Len())
}

func TestExecute_WriterError(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "scenarios", "memcheck.yaml"))
	require.NoError(t, err)

	boom := errors.New("disk full")
	w := testutil.NewMemoryWriter()
	w.FailWith(boom)

	_, err = Execute(context.Background(), s, s.NewRun(tv.WithWriter(w)))
	assert.ErrorIs(t, err, boom)
}

func TestNewRun_CommandLineOverride(t *testing.T) {
	s := &Scenario{Name: "n", Version: "1", CommandLine: "from-file"}

	assert.Equal(t, "from-file", s.NewRun(tv.WithWriter(testutil.NewMemoryWriter())).CommandLine())
	assert.Equal(t, "flag", s.NewRun(tv.WithWriter(testutil.NewMemoryWriter()), tv.WithCommandLine("flag")).CommandLine())
}
