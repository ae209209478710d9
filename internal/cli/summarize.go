package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/ocptv/internal/model"
)

const maxSummaryLine = 16 << 20

// RunSummary aggregates one output stream.
type RunSummary struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	DutID     string         `json:"dut_id"`
	Status    string         `json:"status,omitempty"` // empty while testRunEnd is missing
	Result    string         `json:"result,omitempty"`
	Lines     int            `json:"lines"`
	RunLogs   int            `json:"run_logs"`
	RunErrors int            `json:"run_errors"`
	Steps     []*StepSummary `json:"steps"`
}

// StepSummary counts the artifacts of one step.
type StepSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status,omitempty"` // empty while testStepEnd is missing
	Measurements   int    `json:"measurements"`
	Series         int    `json:"series"`
	Elements       int    `json:"series_elements"`
	DiagnosesPass  int    `json:"diagnoses_pass"`
	DiagnosesFail  int    `json:"diagnoses_fail"`
	DiagnosesOther int    `json:"diagnoses_unknown"`
	Errors         int    `json:"errors"`
	Logs           int    `json:"logs"`
	Files          int    `json:"files"`
}

// Summarize reads an output stream and counts its artifacts per step.
// Steps are listed in the order they first appear. Blank lines are skipped;
// a line that is not an OCP TV envelope is an error.
func Summarize(r io.Reader) (*RunSummary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSummaryLine)

	sum := &RunSummary{Steps: []*StepSummary{}}
	steps := map[string]*StepSummary{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		info, err := model.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		sum.Lines++

		switch info.Kind {
		case "testRunArtifact":
			if err := sum.addRunRecord(info); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "testStepArtifact":
			step, ok := steps[info.StepID]
			if !ok {
				step = &StepSummary{ID: info.StepID}
				steps[info.StepID] = step
				sum.Steps = append(sum.Steps, step)
			}
			if err := step.add(info); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return sum, nil
}

func (s *RunSummary) addRunRecord(info model.LineInfo) error {
	switch info.Record {
	case "testRunStart":
		var start struct {
			Name    string `json:"name"`
			Version string `json:"version"`
			DutInfo struct {
				ID string `json:"dutInfoId"`
			} `json:"dutInfo"`
		}
		if err := json.Unmarshal(info.Body, &start); err != nil {
			return fmt.Errorf("testRunStart: %w", err)
		}
		s.Name, s.Version, s.DutID = start.Name, start.Version, start.DutInfo.ID
	case "testRunEnd":
		var end struct {
			Status string `json:"status"`
			Result string `json:"result"`
		}
		if err := json.Unmarshal(info.Body, &end); err != nil {
			return fmt.Errorf("testRunEnd: %w", err)
		}
		s.Status, s.Result = end.Status, end.Result
	case "log":
		s.RunLogs++
	case "error":
		s.RunErrors++
	}
	return nil
}

func (s *StepSummary) add(info model.LineInfo) error {
	switch info.Record {
	case "testStepStart":
		var start struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(info.Body, &start); err != nil {
			return fmt.Errorf("testStepStart: %w", err)
		}
		s.Name = start.Name
	case "testStepEnd":
		var end struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(info.Body, &end); err != nil {
			return fmt.Errorf("testStepEnd: %w", err)
		}
		s.Status = end.Status
	case "measurement":
		s.Measurements++
	case "measurementSeriesStart":
		s.Series++
	case "measurementSeriesElement":
		s.Elements++
	case "diagnosis":
		var diag struct {
			Type model.DiagnosisType `json:"type"`
		}
		if err := json.Unmarshal(info.Body, &diag); err != nil {
			return fmt.Errorf("diagnosis: %w", err)
		}
		switch diag.Type {
		case model.DiagnosisPass:
			s.DiagnosesPass++
		case model.DiagnosisFail:
			s.DiagnosesFail++
		default:
			s.DiagnosesOther++
		}
	case "error":
		s.Errors++
	case "log":
		s.Logs++
	case "file":
		s.Files++
	}
	return nil
}
