package model

// SchemaMajor and SchemaMinor identify the OCP output schema version emitted
// in the schemaVersion preamble.
const (
	SchemaMajor = 2
	SchemaMinor = 0
)

// LogSeverity is the severity of a log artifact.
type LogSeverity string

const (
	SeverityInfo    LogSeverity = "INFO"
	SeverityDebug   LogSeverity = "DEBUG"
	SeverityWarning LogSeverity = "WARNING"
	SeverityError   LogSeverity = "ERROR"
	SeverityFatal   LogSeverity = "FATAL"
)

// Valid reports whether s is a known severity.
func (s LogSeverity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityDebug, SeverityWarning, SeverityError, SeverityFatal:
		return true
	}
	return false
}

// TestStatus is the terminal status of a run or step.
type TestStatus string

const (
	StatusComplete TestStatus = "COMPLETE"
	StatusError    TestStatus = "ERROR"
	StatusSkip     TestStatus = "SKIP"
)

// Valid reports whether s is a known status.
func (s TestStatus) Valid() bool {
	switch s {
	case StatusComplete, StatusError, StatusSkip:
		return true
	}
	return false
}

// TestResult is the overall outcome of a run.
type TestResult string

const (
	ResultPass          TestResult = "PASS"
	ResultFail          TestResult = "FAIL"
	ResultNotApplicable TestResult = "NOT_APPLICABLE"
)

// Valid reports whether r is a known result.
func (r TestResult) Valid() bool {
	switch r {
	case ResultPass, ResultFail, ResultNotApplicable:
		return true
	}
	return false
}

// DiagnosisType classifies a diagnosis artifact.
type DiagnosisType string

const (
	DiagnosisPass    DiagnosisType = "PASS"
	DiagnosisFail    DiagnosisType = "FAIL"
	DiagnosisUnknown DiagnosisType = "UNKNOWN"
)

// Valid reports whether d is a known diagnosis type.
func (d DiagnosisType) Valid() bool {
	switch d {
	case DiagnosisPass, DiagnosisFail, DiagnosisUnknown:
		return true
	}
	return false
}

// ValidatorType is the comparison a validator applies to a measurement.
type ValidatorType string

const (
	ValidatorEqual              ValidatorType = "EQUAL"
	ValidatorNotEqual           ValidatorType = "NOT_EQUAL"
	ValidatorLessThan           ValidatorType = "LESS_THAN"
	ValidatorLessThanOrEqual    ValidatorType = "LESS_THAN_OR_EQUAL"
	ValidatorGreaterThan        ValidatorType = "GREATER_THAN"
	ValidatorGreaterThanOrEqual ValidatorType = "GREATER_THAN_OR_EQUAL"
	ValidatorRegexMatch         ValidatorType = "REGEX_MATCH"
	ValidatorRegexNoMatch       ValidatorType = "REGEX_NO_MATCH"
	ValidatorInSet              ValidatorType = "IN_SET"
	ValidatorNotInSet           ValidatorType = "NOT_IN_SET"
)

// Valid reports whether v is a known validator type.
func (v ValidatorType) Valid() bool {
	switch v {
	case ValidatorEqual, ValidatorNotEqual,
		ValidatorLessThan, ValidatorLessThanOrEqual,
		ValidatorGreaterThan, ValidatorGreaterThanOrEqual,
		ValidatorRegexMatch, ValidatorRegexNoMatch,
		ValidatorInSet, ValidatorNotInSet:
		return true
	}
	return false
}

// SoftwareType classifies a software info descriptor.
type SoftwareType string

const (
	SoftwareUnspecified SoftwareType = "UNSPECIFIED"
	SoftwareFirmware    SoftwareType = "FIRMWARE"
	SoftwareSystem      SoftwareType = "SYSTEM"
	SoftwareApplication SoftwareType = "APPLICATION"
)

// Valid reports whether s is a known software type.
func (s SoftwareType) Valid() bool {
	switch s {
	case SoftwareUnspecified, SoftwareFirmware, SoftwareSystem, SoftwareApplication:
		return true
	}
	return false
}

// SubcomponentType classifies a subcomponent descriptor.
type SubcomponentType string

const (
	SubcomponentUnspecified   SubcomponentType = "UNSPECIFIED"
	SubcomponentASIC          SubcomponentType = "ASIC"
	SubcomponentASICSubsystem SubcomponentType = "ASIC-SUBSYSTEM"
	SubcomponentBus           SubcomponentType = "BUS"
	SubcomponentFunction      SubcomponentType = "FUNCTION"
	SubcomponentConnector     SubcomponentType = "CONNECTOR"
)

// Valid reports whether s is a known subcomponent type.
func (s SubcomponentType) Valid() bool {
	switch s {
	case SubcomponentUnspecified, SubcomponentASIC, SubcomponentASICSubsystem,
		SubcomponentBus, SubcomponentFunction, SubcomponentConnector:
		return true
	}
	return false
}
