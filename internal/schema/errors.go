package schema

import "fmt"

// Validation error codes (E200-E299)
const (
	ErrInvalidJSON       = "E200" // line is not a JSON object
	ErrSchema            = "E201" // line does not unify with #Root
	ErrMissingPreamble   = "E202" // first line is not schemaVersion
	ErrSequenceOrder     = "E203" // sequenceNumber did not increase
	ErrUnknownStep       = "E204" // step artifact before testStepStart or after testStepEnd
	ErrDuplicateStep     = "E205" // testStepStart repeated for one id
	ErrUnknownSeries     = "E206" // series element or end for a series that is not open
	ErrSeriesIndex       = "E207" // series element index out of order
	ErrSeriesCount       = "E208" // totalCount differs from the number of elements
	ErrRunNotStarted     = "E209" // artifact after testRunEnd, or step before testRunStart
	ErrDuplicateSeriesID = "E210" // measurementSeriesStart repeated for one id
	ErrUnterminated      = "E211" // stream ends with the run, a step or a series still open
)

// LineError describes a problem with one line of a stream.
type LineError struct {
	Line    int    `json:"line"` // 1-based line number
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *LineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s", e.Code, e.Line, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
