package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ocptv/internal/model"
)

// Scenario is a declarative test run.
type Scenario struct {
	// Name is the run name reported in testRunStart.
	Name string `yaml:"name"`

	// Version is the diagnostic version reported in testRunStart.
	Version string `yaml:"version"`

	Description string `yaml:"description,omitempty"`

	// CommandLine overrides the recorded command line. When empty the
	// runner's own arguments are used.
	CommandLine string `yaml:"command_line,omitempty"`

	Parameters map[string]any `yaml:"parameters,omitempty"`
	Metadata   map[string]any `yaml:"metadata,omitempty"`

	Dut   DutSpec    `yaml:"dut"`
	Steps []StepSpec `yaml:"steps"`

	// End sets the final run status and result (default COMPLETE/PASS).
	End *EndSpec `yaml:"end,omitempty"`
}

// DutSpec describes the device under test.
type DutSpec struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name,omitempty"`
	Platform []string       `yaml:"platform,omitempty"`
	Hardware []HardwareSpec `yaml:"hardware,omitempty"`
	Software []SoftwareSpec `yaml:"software,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// HardwareSpec describes one hardware component. Actions refer to it by Name.
type HardwareSpec struct {
	Name               string `yaml:"name"`
	Version            string `yaml:"version,omitempty"`
	Revision           string `yaml:"revision,omitempty"`
	Location           string `yaml:"location,omitempty"`
	SerialNo           string `yaml:"serial_number,omitempty"`
	PartNo             string `yaml:"part_number,omitempty"`
	Manufacturer       string `yaml:"manufacturer,omitempty"`
	ManufacturerPartNo string `yaml:"manufacturer_part_number,omitempty"`
	OdataID            string `yaml:"odata_id,omitempty"`
	ComputerSystem     string `yaml:"computer_system,omitempty"`
	Manager            string `yaml:"manager,omitempty"`
}

// SoftwareSpec describes one software component. Errors refer to it by Name.
type SoftwareSpec struct {
	Name           string `yaml:"name"`
	Version        string `yaml:"version,omitempty"`
	Revision       string `yaml:"revision,omitempty"`
	Type           string `yaml:"type,omitempty"`
	ComputerSystem string `yaml:"computer_system,omitempty"`
}

// StepSpec is one test step.
type StepSpec struct {
	Name    string   `yaml:"name"`
	Actions []Action `yaml:"actions"`

	// Status ends the step early with SKIP or ERROR after its actions ran.
	Status string `yaml:"status,omitempty"`
}

// Action is one call on a step. Exactly one field must be set.
type Action struct {
	Log         *LogAction         `yaml:"log,omitempty"`
	Measurement *MeasurementAction `yaml:"measurement,omitempty"`
	Series      *SeriesAction      `yaml:"series,omitempty"`
	Diagnosis   *DiagnosisAction   `yaml:"diagnosis,omitempty"`
	Error       *ErrorAction       `yaml:"error,omitempty"`
	File        *FileAction        `yaml:"file,omitempty"`
	Extension   *ExtensionAction   `yaml:"extension,omitempty"`
}

// LogAction emits a step log.
type LogAction struct {
	Severity string `yaml:"severity,omitempty"` // default INFO
	Message  string `yaml:"message"`
}

// ValidatorSpec describes a measurement validator.
type ValidatorSpec struct {
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
	Name  string `yaml:"name,omitempty"`
}

// SubcomponentSpec narrows a hardware reference.
type SubcomponentSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Location string `yaml:"location,omitempty"`
	Version  string `yaml:"version,omitempty"`
	Revision string `yaml:"revision,omitempty"`
}

// MeasurementAction emits a single measurement.
type MeasurementAction struct {
	Name         string            `yaml:"name"`
	Value        any               `yaml:"value"`
	Unit         string            `yaml:"unit,omitempty"`
	Validators   []ValidatorSpec   `yaml:"validators,omitempty"`
	Hardware     string            `yaml:"hardware,omitempty"`
	Subcomponent *SubcomponentSpec `yaml:"subcomponent,omitempty"`
	Metadata     map[string]any    `yaml:"metadata,omitempty"`
}

// SeriesAction emits a whole measurement series: start, one element per
// value, end.
type SeriesAction struct {
	Name         string            `yaml:"name"`
	Values       []any             `yaml:"values"`
	Unit         string            `yaml:"unit,omitempty"`
	Validators   []ValidatorSpec   `yaml:"validators,omitempty"`
	Hardware     string            `yaml:"hardware,omitempty"`
	Subcomponent *SubcomponentSpec `yaml:"subcomponent,omitempty"`
	Metadata     map[string]any    `yaml:"metadata,omitempty"`
}

// DiagnosisAction emits a diagnosis.
type DiagnosisAction struct {
	Verdict      string            `yaml:"verdict"`
	Type         string            `yaml:"type"`
	Message      string            `yaml:"message,omitempty"`
	Hardware     string            `yaml:"hardware,omitempty"`
	Subcomponent *SubcomponentSpec `yaml:"subcomponent,omitempty"`
}

// ErrorAction emits a step error.
type ErrorAction struct {
	Symptom  string   `yaml:"symptom"`
	Message  string   `yaml:"message,omitempty"`
	Software []string `yaml:"software,omitempty"`
}

// FileAction emits a file reference.
type FileAction struct {
	Name        string         `yaml:"name"`
	URI         string         `yaml:"uri"`
	Snapshot    *bool          `yaml:"snapshot,omitempty"` // default true
	Description string         `yaml:"description,omitempty"`
	ContentType string         `yaml:"content_type,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty"`
}

// ExtensionAction emits vendor-defined content: a string or a mapping.
type ExtensionAction struct {
	Name    string `yaml:"name"`
	Content any    `yaml:"content"`
}

// EndSpec is the terminal status and result of the run.
type EndSpec struct {
	Status string `yaml:"status"`
	Result string `yaml:"result"`
}

// Load reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: document is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks required fields, enum values and references.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Version == "" {
		return fmt.Errorf("version is required")
	}
	if s.Dut.ID == "" {
		return fmt.Errorf("dut.id is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	hardware := make(map[string]bool)
	for i, hw := range s.Dut.Hardware {
		if hw.Name == "" {
			return fmt.Errorf("dut.hardware[%d]: name is required", i)
		}
		if hardware[hw.Name] {
			return fmt.Errorf("dut.hardware[%d]: duplicate name %q", i, hw.Name)
		}
		hardware[hw.Name] = true
	}
	software := make(map[string]bool)
	for i, sw := range s.Dut.Software {
		if sw.Name == "" {
			return fmt.Errorf("dut.software[%d]: name is required", i)
		}
		if software[sw.Name] {
			return fmt.Errorf("dut.software[%d]: duplicate name %q", i, sw.Name)
		}
		if sw.Type != "" && !model.SoftwareType(sw.Type).Valid() {
			return fmt.Errorf("dut.software[%d]: unknown type %q", i, sw.Type)
		}
		software[sw.Name] = true
	}

	r := refs{hardware: hardware, software: software}
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if step.Status != "" {
			status := model.TestStatus(step.Status)
			if !status.Valid() || status == model.StatusComplete {
				return fmt.Errorf("steps[%d]: status must be SKIP or ERROR, got %q", i, step.Status)
			}
		}
		for j, action := range step.Actions {
			if err := validateAction(&action, r); err != nil {
				return fmt.Errorf("steps[%d].actions[%d]: %w", i, j, err)
			}
		}
	}

	if s.End != nil {
		if !model.TestStatus(s.End.Status).Valid() {
			return fmt.Errorf("end: unknown status %q", s.End.Status)
		}
		if !model.TestResult(s.End.Result).Valid() {
			return fmt.Errorf("end: unknown result %q", s.End.Result)
		}
	}
	return nil
}

type refs struct {
	hardware map[string]bool
	software map[string]bool
}

func (r refs) checkHardware(name string) error {
	if name != "" && !r.hardware[name] {
		return fmt.Errorf("unknown hardware %q", name)
	}
	return nil
}

func validateAction(a *Action, r refs) error {
	set := 0
	for _, present := range []bool{
		a.Log != nil, a.Measurement != nil, a.Series != nil,
		a.Diagnosis != nil, a.Error != nil, a.File != nil,
		a.Extension != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one action kind must be set, got %d", set)
	}

	switch {
	case a.Log != nil:
		if a.Log.Severity != "" && !model.LogSeverity(a.Log.Severity).Valid() {
			return fmt.Errorf("log: unknown severity %q", a.Log.Severity)
		}
	case a.Measurement != nil:
		m := a.Measurement
		if m.Name == "" {
			return fmt.Errorf("measurement: name is required")
		}
		if _, err := model.ValueOf(m.Value); err != nil {
			return fmt.Errorf("measurement %q: %w", m.Name, err)
		}
		if err := validateValidators(m.Validators); err != nil {
			return fmt.Errorf("measurement %q: %w", m.Name, err)
		}
		if err := validateSubcomponent(m.Subcomponent); err != nil {
			return fmt.Errorf("measurement %q: %w", m.Name, err)
		}
		return r.checkHardware(m.Hardware)
	case a.Series != nil:
		ser := a.Series
		if ser.Name == "" {
			return fmt.Errorf("series: name is required")
		}
		for k, v := range ser.Values {
			if _, err := model.ValueOf(v); err != nil {
				return fmt.Errorf("series %q: values[%d]: %w", ser.Name, k, err)
			}
		}
		if err := validateValidators(ser.Validators); err != nil {
			return fmt.Errorf("series %q: %w", ser.Name, err)
		}
		if err := validateSubcomponent(ser.Subcomponent); err != nil {
			return fmt.Errorf("series %q: %w", ser.Name, err)
		}
		return r.checkHardware(ser.Hardware)
	case a.Diagnosis != nil:
		d := a.Diagnosis
		if d.Verdict == "" {
			return fmt.Errorf("diagnosis: verdict is required")
		}
		if !model.DiagnosisType(d.Type).Valid() {
			return fmt.Errorf("diagnosis %q: unknown type %q", d.Verdict, d.Type)
		}
		if err := validateSubcomponent(d.Subcomponent); err != nil {
			return fmt.Errorf("diagnosis %q: %w", d.Verdict, err)
		}
		return r.checkHardware(d.Hardware)
	case a.Error != nil:
		if a.Error.Symptom == "" {
			return fmt.Errorf("error: symptom is required")
		}
		for _, name := range a.Error.Software {
			if !r.software[name] {
				return fmt.Errorf("error %q: unknown software %q", a.Error.Symptom, name)
			}
		}
	case a.File != nil:
		if a.File.Name == "" || a.File.URI == "" {
			return fmt.Errorf("file: name and uri are required")
		}
	case a.Extension != nil:
		if a.Extension.Name == "" {
			return fmt.Errorf("extension: name is required")
		}
		switch a.Extension.Content.(type) {
		case string, map[string]any:
		default:
			return fmt.Errorf("extension %q: content must be a string or a mapping", a.Extension.Name)
		}
	}
	return nil
}

func validateValidators(validators []ValidatorSpec) error {
	for i, v := range validators {
		if !model.ValidatorType(v.Type).Valid() {
			return fmt.Errorf("validators[%d]: unknown type %q", i, v.Type)
		}
		if _, err := model.ValueOf(v.Value); err != nil {
			return fmt.Errorf("validators[%d]: %w", i, err)
		}
	}
	return nil
}

func validateSubcomponent(sub *SubcomponentSpec) error {
	if sub == nil {
		return nil
	}
	if sub.Name == "" {
		return fmt.Errorf("subcomponent: name is required")
	}
	if sub.Type != "" && !model.SubcomponentType(sub.Type).Valid() {
		return fmt.Errorf("subcomponent %q: unknown type %q", sub.Name, sub.Type)
	}
	return nil
}
