package model

import (
	"encoding/json"
	"fmt"
)

// LineInfo is the envelope of a decoded output line. The record body is left
// undecoded; consumers that need it unmarshal Body into the matching type.
type LineInfo struct {
	SequenceNumber int64
	Timestamp      Timestamp
	Kind           string          // schemaVersion, testRunArtifact or testStepArtifact
	Record         string          // record key inside the artifact, e.g. testStepStart
	StepID         string          // only for testStepArtifact
	Body           json.RawMessage // the record (or the schemaVersion object)
}

var rootKinds = []string{
	SchemaVersion{}.SpecObject(),
	RunArtifact{}.SpecObject(),
	StepArtifact{}.SpecObject(),
}

// ParseLine decodes the envelope fields of one output line.
func ParseLine(data []byte) (LineInfo, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return LineInfo{}, fmt.Errorf("parse line: %w", err)
	}

	var info LineInfo
	seq, ok := raw["sequenceNumber"]
	if !ok {
		return LineInfo{}, fmt.Errorf("parse line: missing sequenceNumber")
	}
	if err := json.Unmarshal(seq, &info.SequenceNumber); err != nil {
		return LineInfo{}, fmt.Errorf("parse line: sequenceNumber: %w", err)
	}
	if ts, ok := raw["timestamp"]; ok {
		if err := json.Unmarshal(ts, &info.Timestamp); err != nil {
			return LineInfo{}, fmt.Errorf("parse line: %w", err)
		}
	}

	for _, kind := range rootKinds {
		body, ok := raw[kind]
		if !ok {
			continue
		}
		if info.Kind != "" {
			return LineInfo{}, fmt.Errorf("parse line: both %s and %s present", info.Kind, kind)
		}
		info.Kind = kind
		info.Body = body
	}
	if info.Kind == "" {
		return LineInfo{}, fmt.Errorf("parse line: no artifact found")
	}
	if info.Kind == rootKinds[0] {
		info.Record = info.Kind
		return info, nil
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(info.Body, &inner); err != nil {
		return LineInfo{}, fmt.Errorf("parse line: %s: %w", info.Kind, err)
	}
	if id, ok := inner["testStepId"]; ok {
		if err := json.Unmarshal(id, &info.StepID); err != nil {
			return LineInfo{}, fmt.Errorf("parse line: testStepId: %w", err)
		}
		delete(inner, "testStepId")
	}
	if len(inner) != 1 {
		return LineInfo{}, fmt.Errorf("parse line: %s must carry exactly one record, got %d", info.Kind, len(inner))
	}
	for k, v := range inner {
		info.Record = k
		info.Body = v
	}
	return info, nil
}
