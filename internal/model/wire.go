package model

import "encoding/json"

// The methods below keep ordered collections encoded as [] (and parameters as
// {}) when callers leave them nil.

// MarshalJSON implements json.Marshaler for Error.
func (e Error) MarshalJSON() ([]byte, error) {
	type wire Error
	w := wire(e)
	if w.SoftwareInfoIDs == nil {
		w.SoftwareInfoIDs = []string{}
	}
	return json.Marshal(w)
}

// MarshalJSON implements json.Marshaler for Measurement.
func (m Measurement) MarshalJSON() ([]byte, error) {
	type wire Measurement
	w := wire(m)
	if w.Validators == nil {
		w.Validators = []Validator{}
	}
	return json.Marshal(w)
}

// MarshalJSON implements json.Marshaler for MeasurementSeriesStart.
func (m MeasurementSeriesStart) MarshalJSON() ([]byte, error) {
	type wire MeasurementSeriesStart
	w := wire(m)
	if w.Validators == nil {
		w.Validators = []Validator{}
	}
	return json.Marshal(w)
}

// MarshalJSON implements json.Marshaler for RunStart.
func (r RunStart) MarshalJSON() ([]byte, error) {
	type wire RunStart
	w := wire(r)
	if w.Parameters == nil {
		w.Parameters = map[string]any{}
	}
	return json.Marshal(w)
}

// MarshalJSON implements json.Marshaler for DutInfo.
func (d DutInfo) MarshalJSON() ([]byte, error) {
	type wire DutInfo
	w := wire(d)
	if w.PlatformInfos == nil {
		w.PlatformInfos = []PlatformInfo{}
	}
	if w.SoftwareInfos == nil {
		w.SoftwareInfos = []SoftwareInfo{}
	}
	if w.HardwareInfos == nil {
		w.HardwareInfos = []HardwareInfo{}
	}
	return json.Marshal(w)
}
