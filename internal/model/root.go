package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// TimestampLayout is the wire format of artifact timestamps.
// Offsets of zero are written as Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp is a wall-clock instant encoded with TimestampLayout.
type Timestamp time.Time

// FormatTimestamp renders t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatTimestamp(time.Time(t)))
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
// Accepts TimestampLayout and any RFC 3339 form.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	*t = Timestamp(parsed)
	return nil
}

// Root is one line of the output stream: an artifact stamped with its
// sequence number and emission time.
type Root struct {
	Artifact       RootArtifact
	SequenceNumber int64
	Timestamp      time.Time
}

// MarshalJSON implements json.Marshaler for Root.
// The artifact is keyed by its SpecObject name.
func (r Root) MarshalJSON() ([]byte, error) {
	if r.Artifact == nil {
		return nil, fmt.Errorf("root artifact is nil")
	}
	return json.Marshal(map[string]any{
		r.Artifact.SpecObject(): r.Artifact,
		"sequenceNumber":        r.SequenceNumber,
		"timestamp":             Timestamp(r.Timestamp),
	})
}

// MarshalJSON implements json.Marshaler for RunArtifact.
func (a RunArtifact) MarshalJSON() ([]byte, error) {
	if IsNil(a.Record) {
		return nil, fmt.Errorf("run artifact record is nil")
	}
	return json.Marshal(map[string]any{
		a.Record.SpecObject(): a.Record,
	})
}

// MarshalJSON implements json.Marshaler for StepArtifact.
func (a StepArtifact) MarshalJSON() ([]byte, error) {
	if IsNil(a.Record) {
		return nil, fmt.Errorf("step artifact record is nil")
	}
	return json.Marshal(map[string]any{
		a.Record.SpecObject(): a.Record,
		"testStepId":          a.StepID,
	})
}

// IsNil reports whether v is nil or holds a nil pointer. Records have value
// receivers, so a nil pointer satisfies the interfaces but panics when used.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Encode renders r as a single canonical JSON line (without newline).
func Encode(r Root) ([]byte, error) {
	line, err := MarshalCanonical(r)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Artifact.SpecObject(), err)
	}
	return line, nil
}
