package tv

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/output"
)

// TestRun is the top-level object of a diagnostic. It owns the output
// stream and assigns step ids.
type TestRun struct {
	name        string
	version     string
	commandLine string
	parameters  map[string]any
	metadata    model.Metadata

	emitter   output.Emitter
	clock     output.Clock
	seriesIDs SeriesIDFunc

	mu     sync.Mutex
	stepID int
}

type runConfig struct {
	commandLine *string
	parameters  map[string]any
	metadata    model.Metadata
	writer      output.Writer
	emitter     output.Emitter
	clock       output.Clock
	seriesIDs   SeriesIDFunc
}

// RunOption configures a TestRun.
type RunOption func(*runConfig)

// WithCommandLine sets the recorded command line
// (default: the process arguments after the program name).
func WithCommandLine(cmdline string) RunOption {
	return func(c *runConfig) { c.commandLine = &cmdline }
}

// WithParameters records the run parameters.
func WithParameters(params map[string]any) RunOption {
	return func(c *runConfig) { c.parameters = params }
}

// WithRunMetadata attaches metadata to testRunStart.
func WithRunMetadata(md model.Metadata) RunOption {
	return func(c *runConfig) { c.metadata = md }
}

// WithWriter sends output to w (default: stdout).
// Ignored when WithEmitter is given.
func WithWriter(w output.Writer) RunOption {
	return func(c *runConfig) { c.writer = w }
}

// WithEmitter uses an existing emitter, e.g. to share one output stream.
func WithEmitter(e output.Emitter) RunOption {
	return func(c *runConfig) { c.emitter = e }
}

// WithRunClock sets the clock for artifact and series element timestamps.
func WithRunClock(clock output.Clock) RunOption {
	return func(c *runConfig) { c.clock = clock }
}

// WithSeriesIDs overrides the measurement series id format of every step.
func WithSeriesIDs(f SeriesIDFunc) RunOption {
	return func(c *runConfig) { c.seriesIDs = f }
}

// NewTestRun creates a run. Nothing is emitted until Start or one of the
// Add methods is called.
func NewTestRun(name, version string, opts ...RunOption) *TestRun {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := &TestRun{
		name:       name,
		version:    version,
		parameters: cfg.parameters,
		metadata:   cfg.metadata,
		clock:      cfg.clock,
		seriesIDs:  cfg.seriesIDs,
		emitter:    cfg.emitter,
	}

	if cfg.commandLine != nil {
		r.commandLine = *cfg.commandLine
	} else {
		r.commandLine = strings.Join(os.Args[1:], " ")
	}
	if r.clock == nil {
		r.clock = output.SystemClock{}
	}
	if r.seriesIDs == nil {
		r.seriesIDs = DefaultSeriesID
	}
	if r.emitter == nil {
		w := cfg.writer
		if w == nil {
			w = output.NewStdoutWriter()
		}
		r.emitter = output.NewArtifactEmitter(w, output.WithClock(r.clock))
	}
	return r
}

// Name returns the run name.
func (r *TestRun) Name() string { return r.name }

// Version returns the diagnostic version.
func (r *TestRun) Version() string { return r.version }

// CommandLine returns the recorded command line.
func (r *TestRun) CommandLine() string { return r.commandLine }

// Parameters returns the run parameters.
func (r *TestRun) Parameters() map[string]any { return r.parameters }

func (r *TestRun) emit(record model.RunRecord) error {
	return r.emitter.Emit(model.RunArtifact{Record: record})
}

// Start emits testRunStart describing dut.
func (r *TestRun) Start(dut *Dut) error {
	if dut == nil {
		return fmt.Errorf("start run %q: dut is required", r.name)
	}
	return r.emit(model.RunStart{
		Name:        r.name,
		Version:     r.version,
		CommandLine: r.commandLine,
		Parameters:  r.parameters,
		DutInfo:     dut.ToSpec(),
		Metadata:    r.metadata,
	})
}

// End emits testRunEnd.
func (r *TestRun) End(status model.TestStatus, result model.TestResult) error {
	return r.emit(model.RunEnd{Status: status, Result: result})
}

// Scope starts the run, runs fn and ends the run.
//
// If fn returns nil the run ends with COMPLETE/PASS. If fn returns a
// *TestRunError the run ends with its status and result and Scope returns nil.
// Any other error is returned unchanged and no testRunEnd is written.
func (r *TestRun) Scope(dut *Dut, fn func(*TestRun) error) error {
	if err := r.Start(dut); err != nil {
		return err
	}

	err := fn(r)
	if err == nil {
		return r.End(model.StatusComplete, model.ResultPass)
	}

	var runErr *TestRunError
	if errors.As(err, &runErr) {
		return r.End(runErr.Status, runErr.Result)
	}
	return err
}

// AddStep creates the next step of the run. Step ids are assigned 0, 1, 2...
// in call order. The step is not started.
func (r *TestRun) AddStep(name string) *TestStep {
	r.mu.Lock()
	id := r.stepID
	r.stepID++
	r.mu.Unlock()

	return NewTestStep(name, id, r.emitter,
		StepSeriesIDs(r.seriesIDs),
		StepClock(r.clock),
	)
}

// AddLog emits a run-scoped log message.
func (r *TestRun) AddLog(severity model.LogSeverity, message string) error {
	return r.emit(model.Log{Severity: severity, Message: message})
}

// AddError emits a run-scoped error. It may be called before Start, e.g.
// when DUT discovery fails.
// Supported options: WithMessage, WithSoftwareInfos.
func (r *TestRun) AddError(symptom string, opts ...Option) error {
	cfg := newArtifactConfig(opts)
	return r.emit(model.Error{
		Symptom:         symptom,
		Message:         cfg.message,
		SoftwareInfoIDs: cfg.softwareInfoIDs(),
	})
}
