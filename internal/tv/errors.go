package tv

import (
	"fmt"

	"github.com/roach88/ocptv/internal/model"
)

// TestStepError ends a step early from inside TestStep.Scope.
// The step is closed with Status instead of COMPLETE.
type TestStepError struct {
	Status model.TestStatus
}

// Error implements the error interface.
func (e *TestStepError) Error() string {
	return fmt.Sprintf("test step ended with status %s", e.Status)
}

// NewTestStepError creates a TestStepError carrying status.
func NewTestStepError(status model.TestStatus) *TestStepError {
	return &TestStepError{Status: status}
}

// TestRunError ends a run early from inside TestRun.Scope.
type TestRunError struct {
	Status model.TestStatus
	Result model.TestResult
}

// Error implements the error interface.
func (e *TestRunError) Error() string {
	return fmt.Sprintf("test run ended with status %s, result %s", e.Status, e.Result)
}

// NewTestRunError creates a TestRunError carrying status and result.
func NewTestRunError(status model.TestStatus, result model.TestResult) *TestRunError {
	return &TestRunError{Status: status, Result: result}
}
