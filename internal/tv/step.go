package tv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/output"
)

// SeriesIDFunc mints the id of the n-th measurement series of a step
// (n starts at 0).
type SeriesIDFunc func(stepID string, n int) string

// DefaultSeriesID formats series ids as "{step_id}_{n}".
func DefaultSeriesID(stepID string, n int) string {
	return fmt.Sprintf("%s_%d", stepID, n)
}

// stepEmitter wraps step records with the id of the step that owns them.
type stepEmitter struct {
	stepID  string
	emitter output.Emitter
}

func (e stepEmitter) emit(record model.StepRecord) error {
	return e.emitter.Emit(model.StepArtifact{StepID: e.stepID, Record: record})
}

// TestStep is one step of a test run. It emits step-scoped artifacts, each
// stamped with the step's id.
//
// A TestStep is not safe for concurrent use; callers that share one step
// between goroutines must synchronize.
type TestStep struct {
	name    string
	id      int
	emitter stepEmitter

	seriesIDs SeriesIDFunc
	clock     output.Clock
	seriesSeq int
}

// StepOption configures a TestStep.
type StepOption func(*TestStep)

// StepSeriesIDs overrides the series id format.
func StepSeriesIDs(f SeriesIDFunc) StepOption {
	return func(s *TestStep) { s.seriesIDs = f }
}

// StepClock sets the clock used for series element timestamps.
func StepClock(c output.Clock) StepOption {
	return func(s *TestStep) { s.clock = c }
}

// NewTestStep creates a step with a caller-assigned id. Normally steps are
// created through TestRun.AddStep, which keeps ids unique within the run.
func NewTestStep(name string, id int, emitter output.Emitter, opts ...StepOption) *TestStep {
	s := &TestStep{
		name:      name,
		id:        id,
		emitter:   stepEmitter{stepID: strconv.Itoa(id), emitter: emitter},
		seriesIDs: DefaultSeriesID,
		clock:     output.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *TestStep) Name() string {
	return s.name
}

// ID returns the step id.
func (s *TestStep) ID() int {
	return s.id
}

// Start emits testStepStart.
func (s *TestStep) Start() error {
	return s.emitter.emit(model.StepStart{Name: s.name})
}

// End emits testStepEnd with status.
func (s *TestStep) End(status model.TestStatus) error {
	return s.emitter.emit(model.StepEnd{Status: status})
}

// Scope starts the step, runs fn and ends the step.
//
// If fn returns nil the step ends with COMPLETE. If fn returns a
// *TestStepError (possibly wrapped) the step ends with its status and Scope
// returns nil. Any other error is returned unchanged and the step is NOT
// ended; the same holds for a panic in fn. If Start fails fn is not called.
func (s *TestStep) Scope(fn func(*TestStep) error) error {
	if err := s.Start(); err != nil {
		return err
	}

	err := fn(s)
	if err == nil {
		return s.End(model.StatusComplete)
	}

	var stepErr *TestStepError
	if errors.As(err, &stepErr) {
		return s.End(stepErr.Status)
	}
	return err
}

// AddMeasurement emits a single measurement.
// Supported options: WithUnit, WithValidators, WithHardwareInfo,
// WithSubcomponent, WithMetadata.
func (s *TestStep) AddMeasurement(name string, value model.Value, opts ...Option) error {
	cfg := newArtifactConfig(opts)
	return s.emitter.emit(model.Measurement{
		Name:           name,
		Value:          value,
		Unit:           cfg.unit,
		Validators:     cfg.validatorSpecs(),
		HardwareInfoID: cfg.hardwareInfoID(),
		Subcomponent:   cfg.subcomponentSpec(),
		Metadata:       cfg.metadata,
	})
}

// StartMeasurementSeries opens a measurement series and returns its handle.
// Every call yields a new series id; ids are never reused within the step,
// even after a series has ended.
// Supported options: WithUnit, WithValidators, WithHardwareInfo,
// WithSubcomponent, WithMetadata.
func (s *TestStep) StartMeasurementSeries(name string, opts ...Option) (*MeasurementSeries, error) {
	seriesID := s.seriesIDs(s.emitter.stepID, s.seriesSeq)
	s.seriesSeq++

	return newMeasurementSeries(s.emitter, seriesID, s.clock, name, newArtifactConfig(opts))
}

// AddDiagnosis emits a diagnosis.
// Supported options: WithMessage, WithHardwareInfo, WithSubcomponent.
func (s *TestStep) AddDiagnosis(typ model.DiagnosisType, verdict string, opts ...Option) error {
	cfg := newArtifactConfig(opts)
	return s.emitter.emit(model.Diagnosis{
		Verdict:        verdict,
		Type:           typ,
		Message:        cfg.message,
		HardwareInfoID: cfg.hardwareInfoID(),
		Subcomponent:   cfg.subcomponentSpec(),
	})
}

// AddLog emits a log message.
func (s *TestStep) AddLog(severity model.LogSeverity, message string) error {
	return s.emitter.emit(model.Log{Severity: severity, Message: message})
}

// AddError emits an error.
// Supported options: WithMessage, WithSoftwareInfos.
func (s *TestStep) AddError(symptom string, opts ...Option) error {
	cfg := newArtifactConfig(opts)
	return s.emitter.emit(model.Error{
		Symptom:         symptom,
		Message:         cfg.message,
		SoftwareInfoIDs: cfg.softwareInfoIDs(),
	})
}

// AddFile emits a file reference. Files are snapshots unless
// WithSnapshot(false) is given.
// Supported options: WithSnapshot, WithDescription, WithContentType,
// WithMetadata.
func (s *TestStep) AddFile(name, uri string, opts ...Option) error {
	cfg := newArtifactConfig(opts)
	return s.emitter.emit(model.File{
		DisplayName: name,
		URI:         uri,
		IsSnapshot:  cfg.isSnapshot,
		Description: cfg.description,
		ContentType: cfg.contentType,
		Metadata:    cfg.metadata,
	})
}

// AddExtension emits vendor-defined content under name. content must encode
// as a JSON string or object.
func (s *TestStep) AddExtension(name string, content any) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("extension %q: %w", name, err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || (trimmed[0] != '"' && trimmed[0] != '{') {
		return fmt.Errorf("extension %q: content must be a string or an object, got %T", name, content)
	}
	return s.emitter.emit(model.Extension{Name: name, Content: content})
}
