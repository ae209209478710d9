package model

// Metadata is an arbitrary JSON object attached to an artifact.
type Metadata map[string]any

// RootArtifact is the sealed set of top-level artifacts in an output stream.
// Only SchemaVersion, RunArtifact and StepArtifact implement it.
type RootArtifact interface {
	SpecObject() string
	rootArtifact()
}

// RunRecord is the sealed set of records a RunArtifact can carry.
// Only RunStart, RunEnd, Log and Error implement it.
type RunRecord interface {
	SpecObject() string
	runRecord()
}

// StepRecord is the sealed set of records a StepArtifact can carry.
type StepRecord interface {
	SpecObject() string
	stepRecord()
}

// SchemaVersion is the preamble emitted before any other artifact.
type SchemaVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

func (SchemaVersion) SpecObject() string { return "schemaVersion" }
func (SchemaVersion) rootArtifact()      {}

// CurrentSchemaVersion returns the version this package emits.
func CurrentSchemaVersion() SchemaVersion {
	return SchemaVersion{Major: SchemaMajor, Minor: SchemaMinor}
}

// RunArtifact wraps a run-scoped record.
type RunArtifact struct {
	Record RunRecord
}

func (RunArtifact) SpecObject() string { return "testRunArtifact" }
func (RunArtifact) rootArtifact()      {}

// StepArtifact wraps a step-scoped record with the owning step's id.
type StepArtifact struct {
	StepID string
	Record StepRecord
}

func (StepArtifact) SpecObject() string { return "testStepArtifact" }
func (StepArtifact) rootArtifact()      {}

// RunStart opens a test run.
type RunStart struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	CommandLine string         `json:"commandLine"`
	Parameters  map[string]any `json:"parameters"`
	DutInfo     DutInfo        `json:"dutInfo"`
	Metadata    Metadata       `json:"metadata,omitempty"`
}

func (RunStart) SpecObject() string { return "testRunStart" }
func (RunStart) runRecord()         {}

// RunEnd closes a test run.
type RunEnd struct {
	Status TestStatus `json:"status"`
	Result TestResult `json:"result"`
}

func (RunEnd) SpecObject() string { return "testRunEnd" }
func (RunEnd) runRecord()         {}

// Log is a free-form message. It is valid in both run and step scope.
type Log struct {
	Severity LogSeverity `json:"severity"`
	Message  string      `json:"message"`
}

func (Log) SpecObject() string { return "log" }
func (Log) runRecord()         {}
func (Log) stepRecord()        {}

// Error reports a failure symptom. It is valid in both run and step scope.
type Error struct {
	Symptom         string   `json:"symptom"`
	Message         *string  `json:"message,omitempty"`
	SoftwareInfoIDs []string `json:"softwareInfoIds"`
}

func (Error) SpecObject() string { return "error" }
func (Error) runRecord()         {}
func (Error) stepRecord()        {}

// StepStart opens a test step.
type StepStart struct {
	Name string `json:"name"`
}

func (StepStart) SpecObject() string { return "testStepStart" }
func (StepStart) stepRecord()        {}

// StepEnd closes a test step.
type StepEnd struct {
	Status TestStatus `json:"status"`
}

func (StepEnd) SpecObject() string { return "testStepEnd" }
func (StepEnd) stepRecord()        {}

// Validator is the wire form of a measurement validator.
type Validator struct {
	Name     *string       `json:"name,omitempty"`
	Type     ValidatorType `json:"type"`
	Value    Value         `json:"value"`
	Metadata Metadata      `json:"metadata,omitempty"`
}

// Measurement is a single named value.
type Measurement struct {
	Name           string        `json:"name"`
	Value          Value         `json:"value"`
	Unit           *string       `json:"unit,omitempty"`
	Validators     []Validator   `json:"validators"`
	HardwareInfoID *string       `json:"hardwareInfoId,omitempty"`
	Subcomponent   *Subcomponent `json:"subcomponent,omitempty"`
	Metadata       Metadata      `json:"metadata,omitempty"`
}

func (Measurement) SpecObject() string { return "measurement" }
func (Measurement) stepRecord()        {}

// MeasurementSeriesStart opens a measurement series.
type MeasurementSeriesStart struct {
	Name           string        `json:"name"`
	Unit           *string       `json:"unit,omitempty"`
	SeriesID       string        `json:"measurementSeriesId"`
	Validators     []Validator   `json:"validators"`
	HardwareInfoID *string       `json:"hardwareInfoId,omitempty"`
	Subcomponent   *Subcomponent `json:"subcomponent,omitempty"`
	Metadata       Metadata      `json:"metadata,omitempty"`
}

func (MeasurementSeriesStart) SpecObject() string { return "measurementSeriesStart" }
func (MeasurementSeriesStart) stepRecord()        {}

// MeasurementSeriesEnd closes a measurement series.
type MeasurementSeriesEnd struct {
	SeriesID   string `json:"measurementSeriesId"`
	TotalCount int    `json:"totalCount"`
}

func (MeasurementSeriesEnd) SpecObject() string { return "measurementSeriesEnd" }
func (MeasurementSeriesEnd) stepRecord()        {}

// MeasurementSeriesElement is one value of a measurement series.
type MeasurementSeriesElement struct {
	Index     int       `json:"index"`
	Value     Value     `json:"value"`
	Timestamp Timestamp `json:"timestamp"`
	SeriesID  string    `json:"measurementSeriesId"`
	Metadata  Metadata  `json:"metadata,omitempty"`
}

func (MeasurementSeriesElement) SpecObject() string { return "measurementSeriesElement" }
func (MeasurementSeriesElement) stepRecord()        {}

// Diagnosis is a verdict about the device under test.
type Diagnosis struct {
	Verdict        string        `json:"verdict"`
	Type           DiagnosisType `json:"type"`
	Message        *string       `json:"message,omitempty"`
	HardwareInfoID *string       `json:"hardwareInfoId,omitempty"`
	Subcomponent   *Subcomponent `json:"subcomponent,omitempty"`
}

func (Diagnosis) SpecObject() string { return "diagnosis" }
func (Diagnosis) stepRecord()        {}

// File references an output file produced by a step.
type File struct {
	DisplayName string   `json:"displayName"`
	URI         string   `json:"uri"`
	IsSnapshot  bool     `json:"isSnapshot"`
	Description *string  `json:"description,omitempty"`
	ContentType *string  `json:"contentType,omitempty"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

func (File) SpecObject() string { return "file" }
func (File) stepRecord()        {}

// Extension carries vendor-defined step content. Content encodes as a JSON
// string or object.
type Extension struct {
	Name    string `json:"name"`
	Content any    `json:"content"`
}

func (Extension) SpecObject() string { return "extension" }
func (Extension) stepRecord()        {}

// DutInfo describes the device under test.
type DutInfo struct {
	ID            string         `json:"dutInfoId"`
	Name          *string        `json:"name,omitempty"`
	PlatformInfos []PlatformInfo `json:"platformInfos"`
	SoftwareInfos []SoftwareInfo `json:"softwareInfos"`
	HardwareInfos []HardwareInfo `json:"hardwareInfos"`
	Metadata      Metadata       `json:"metadata,omitempty"`
}

// PlatformInfo is a free-form platform tag.
type PlatformInfo struct {
	Info string `json:"info"`
}

// SoftwareInfo describes software running on the DUT.
type SoftwareInfo struct {
	ID             string        `json:"softwareInfoId"`
	Name           string        `json:"name"`
	Version        *string       `json:"version,omitempty"`
	Revision       *string       `json:"revision,omitempty"`
	Type           *SoftwareType `json:"softwareType,omitempty"`
	ComputerSystem *string       `json:"computerSystem,omitempty"`
}

// HardwareInfo describes a hardware component of the DUT.
type HardwareInfo struct {
	ID                 string  `json:"hardwareInfoId"`
	Name               string  `json:"name"`
	Version            *string `json:"version,omitempty"`
	Revision           *string `json:"revision,omitempty"`
	Location           *string `json:"location,omitempty"`
	SerialNumber       *string `json:"serialNumber,omitempty"`
	PartNumber         *string `json:"partNumber,omitempty"`
	Manufacturer       *string `json:"manufacturer,omitempty"`
	ManufacturerPartNo *string `json:"manufacturerPartNumber,omitempty"`
	OdataID            *string `json:"odataId,omitempty"`
	ComputerSystem     *string `json:"computerSystem,omitempty"`
	Manager            *string `json:"manager,omitempty"`
}

// Subcomponent narrows a hardware reference to a part of the component.
type Subcomponent struct {
	Type     *SubcomponentType `json:"type,omitempty"`
	Name     string            `json:"name"`
	Location *string           `json:"location,omitempty"`
	Version  *string           `json:"version,omitempty"`
	Revision *string           `json:"revision,omitempty"`
}
