package schema

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/roach88/ocptv/internal/model"
)

// maxLineSize bounds a single output line. Measurements with large
// metadata can exceed bufio's 64KiB default.
const maxLineSize = 16 << 20

// StreamResult is the outcome of validating a whole stream.
type StreamResult struct {
	Lines  int
	Errors []LineError
}

// OK reports whether no problems were found.
func (r StreamResult) OK() bool {
	return len(r.Errors) == 0
}

// ValidateStream validates every line of r. Problems are collected, not
// fail-fast; only a read error aborts. Blank lines are skipped. A stream that
// ends with the run, a step or a series still open gets ErrUnterminated
// errors with Line 0 after the per-line errors.
func (c *Checker) ValidateStream(r io.Reader) (StreamResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	st := newStreamState()
	var res StreamResult
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		res.Lines++
		for _, le := range c.checkLine(st, line) {
			le.Line = lineNo
			res.Errors = append(res.Errors, le)
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read stream: %w", err)
	}
	if res.Lines == 0 {
		res.Errors = append(res.Errors, LineError{Code: ErrMissingPreamble, Message: "stream is empty"})
		return res, nil
	}
	res.Errors = append(res.Errors, st.finish()...)
	return res, nil
}

func (c *Checker) checkLine(st *streamState, line []byte) []LineError {
	if err := c.ValidateLine(line); err != nil {
		var le *LineError
		if errors.As(err, &le) {
			return []LineError{*le}
		}
		return []LineError{{Code: ErrSchema, Message: err.Error()}}
	}

	info, err := model.ParseLine(line)
	if err != nil {
		return []LineError{{Code: ErrInvalidJSON, Message: err.Error()}}
	}
	return st.observe(info)
}

type seriesState struct {
	stepID string
	next   int
}

// streamState tracks lifecycle across lines.
type streamState struct {
	first      bool
	lastSeq    int64
	runStarted bool
	runEnded   bool
	openSteps  map[string]bool
	seenSteps  map[string]bool
	openSeries map[string]*seriesState
	seenSeries map[string]bool
}

func newStreamState() *streamState {
	return &streamState{
		first:      true,
		openSteps:  make(map[string]bool),
		seenSteps:  make(map[string]bool),
		openSeries: make(map[string]*seriesState),
		seenSeries: make(map[string]bool),
	}
}

func (st *streamState) observe(info model.LineInfo) []LineError {
	var errs []LineError
	fail := func(code, format string, args ...any) {
		errs = append(errs, LineError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if st.first {
		st.first = false
		if info.Kind != (model.SchemaVersion{}).SpecObject() {
			fail(ErrMissingPreamble, "first artifact is %s, expected schemaVersion", info.Kind)
		}
	} else {
		if info.Kind == (model.SchemaVersion{}).SpecObject() {
			fail(ErrMissingPreamble, "schemaVersion repeated")
		}
		if info.SequenceNumber <= st.lastSeq {
			fail(ErrSequenceOrder, "sequenceNumber %d after %d", info.SequenceNumber, st.lastSeq)
		}
	}
	st.lastSeq = info.SequenceNumber

	switch info.Kind {
	case (model.RunArtifact{}).SpecObject():
		st.observeRun(info, fail)
	case (model.StepArtifact{}).SpecObject():
		st.observeStep(info, fail)
	}
	return errs
}

func (st *streamState) observeRun(info model.LineInfo, fail func(code, format string, args ...any)) {
	if st.runEnded {
		fail(ErrRunNotStarted, "%s after testRunEnd", info.Record)
	}
	switch info.Record {
	case (model.RunStart{}).SpecObject():
		if st.runStarted {
			fail(ErrRunNotStarted, "testRunStart repeated")
		}
		st.runStarted = true
	case (model.RunEnd{}).SpecObject():
		if !st.runStarted {
			fail(ErrRunNotStarted, "testRunEnd before testRunStart")
		}
		st.runEnded = true
	}
}

func (st *streamState) observeStep(info model.LineInfo, fail func(code, format string, args ...any)) {
	id := info.StepID
	if !st.runStarted || st.runEnded {
		fail(ErrRunNotStarted, "step %q artifact outside the run", id)
	}

	switch info.Record {
	case (model.StepStart{}).SpecObject():
		if st.seenSteps[id] {
			fail(ErrDuplicateStep, "testStepStart repeated for step %q", id)
		}
		st.seenSteps[id] = true
		st.openSteps[id] = true
		return
	case (model.StepEnd{}).SpecObject():
		if !st.openSteps[id] {
			fail(ErrUnknownStep, "testStepEnd for step %q which is not open", id)
		}
		delete(st.openSteps, id)
		return
	}

	if !st.openSteps[id] {
		fail(ErrUnknownStep, "%s for step %q which is not open", info.Record, id)
	}

	switch info.Record {
	case (model.MeasurementSeriesStart{}).SpecObject():
		var body struct {
			ID string `json:"measurementSeriesId"`
		}
		if err := json.Unmarshal(info.Body, &body); err != nil {
			fail(ErrInvalidJSON, "%s: %v", info.Record, err)
			return
		}
		if st.seenSeries[body.ID] {
			fail(ErrDuplicateSeriesID, "measurementSeriesStart repeated for series %q", body.ID)
		}
		st.seenSeries[body.ID] = true
		st.openSeries[body.ID] = &seriesState{stepID: id}

	case (model.MeasurementSeriesElement{}).SpecObject():
		var body struct {
			ID    string `json:"measurementSeriesId"`
			Index int    `json:"index"`
		}
		if err := json.Unmarshal(info.Body, &body); err != nil {
			fail(ErrInvalidJSON, "%s: %v", info.Record, err)
			return
		}
		ss, ok := st.openSeries[body.ID]
		if !ok || ss.stepID != id {
			fail(ErrUnknownSeries, "element for series %q which is not open in step %q", body.ID, id)
			return
		}
		if body.Index != ss.next {
			fail(ErrSeriesIndex, "series %q element index %d, expected %d", body.ID, body.Index, ss.next)
		}
		ss.next = body.Index + 1

	case (model.MeasurementSeriesEnd{}).SpecObject():
		var body struct {
			ID         string `json:"measurementSeriesId"`
			TotalCount int    `json:"totalCount"`
		}
		if err := json.Unmarshal(info.Body, &body); err != nil {
			fail(ErrInvalidJSON, "%s: %v", info.Record, err)
			return
		}
		ss, ok := st.openSeries[body.ID]
		if !ok || ss.stepID != id {
			fail(ErrUnknownSeries, "end for series %q which is not open in step %q", body.ID, id)
			return
		}
		if body.TotalCount != ss.next {
			fail(ErrSeriesCount, "series %q totalCount %d, saw %d elements", body.ID, body.TotalCount, ss.next)
		}
		delete(st.openSeries, body.ID)
	}
}

// finish reports what is still open once the stream ends. These errors
// carry no line number.
func (st *streamState) finish() []LineError {
	var errs []LineError
	for _, id := range slices.Sorted(maps.Keys(st.openSeries)) {
		errs = append(errs, LineError{Code: ErrUnterminated,
			Message: fmt.Sprintf("series %q in step %q never ended", id, st.openSeries[id].stepID)})
	}
	for _, id := range slices.Sorted(maps.Keys(st.openSteps)) {
		errs = append(errs, LineError{Code: ErrUnterminated,
			Message: fmt.Sprintf("step %q never ended", id)})
	}
	if !st.runEnded {
		errs = append(errs, LineError{Code: ErrUnterminated, Message: "stream ends without testRunEnd"})
	}
	return errs
}
