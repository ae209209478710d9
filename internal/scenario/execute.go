package scenario

import (
	"context"
	"fmt"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/tv"
)

// Result summarizes an executed scenario.
type Result struct {
	Status model.TestStatus
	Result model.TestResult
	Steps  []StepResult
}

// StepResult is the outcome of one step.
type StepResult struct {
	Name   string
	ID     int
	Status model.TestStatus
}

// NewRun creates a run named after the scenario. opts are applied after the
// scenario's own settings, so callers can override the command line.
func (s *Scenario) NewRun(opts ...tv.RunOption) *tv.TestRun {
	base := []tv.RunOption{
		tv.WithParameters(s.Parameters),
		tv.WithRunMetadata(model.Metadata(s.Metadata)),
	}
	if s.CommandLine != "" {
		base = append(base, tv.WithCommandLine(s.CommandLine))
	}
	return tv.NewTestRun(s.Name, s.Version, append(base, opts...)...)
}

// descriptors resolves names used by actions to DUT descriptors.
type descriptors struct {
	hardware map[string]*tv.HardwareInfo
	software map[string]*tv.SoftwareInfo
}

func buildDut(spec DutSpec) (*tv.Dut, descriptors) {
	var opts []tv.DutOption
	if spec.Name != "" {
		opts = append(opts, tv.DutName(spec.Name))
	}
	if spec.Metadata != nil {
		opts = append(opts, tv.DutMetadata(model.Metadata(spec.Metadata)))
	}
	dut := tv.NewDut(spec.ID, opts...)

	d := descriptors{
		hardware: make(map[string]*tv.HardwareInfo, len(spec.Hardware)),
		software: make(map[string]*tv.SoftwareInfo, len(spec.Software)),
	}
	for _, info := range spec.Platform {
		dut.AddPlatformInfo(info)
	}
	for _, sw := range spec.Software {
		d.software[sw.Name] = dut.AddSoftwareInfo(sw.Name, tv.SoftwareParams{
			Type:           model.SoftwareType(sw.Type),
			Version:        sw.Version,
			Revision:       sw.Revision,
			ComputerSystem: sw.ComputerSystem,
		})
	}
	for _, hw := range spec.Hardware {
		d.hardware[hw.Name] = dut.AddHardwareInfo(hw.Name, tv.HardwareParams{
			Version:            hw.Version,
			Revision:           hw.Revision,
			Location:           hw.Location,
			SerialNo:           hw.SerialNo,
			PartNo:             hw.PartNo,
			Manufacturer:       hw.Manufacturer,
			ManufacturerPartNo: hw.ManufacturerPartNo,
			OdataID:            hw.OdataID,
			ComputerSystem:     hw.ComputerSystem,
			Manager:            hw.Manager,
		})
	}
	return dut, d
}

// Execute runs s on run. Steps execute in order; ctx is checked before each
// step. A cancelled context or a failed emit is returned unchanged and the
// run is left without testRunEnd.
func Execute(ctx context.Context, s *Scenario, run *tv.TestRun) (*Result, error) {
	dut, d := buildDut(s.Dut)
	res := &Result{
		Status: model.StatusComplete,
		Result: model.ResultPass,
		Steps:  []StepResult{},
	}
	if s.End != nil {
		res.Status = model.TestStatus(s.End.Status)
		res.Result = model.TestResult(s.End.Result)
	}

	err := run.Scope(dut, func(r *tv.TestRun) error {
		for _, spec := range s.Steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			step := r.AddStep(spec.Name)
			status := model.StatusComplete
			if spec.Status != "" {
				status = model.TestStatus(spec.Status)
			}

			err := step.Scope(func(st *tv.TestStep) error {
				for i, action := range spec.Actions {
					if err := d.apply(st, action); err != nil {
						return fmt.Errorf("step %q action %d: %w", spec.Name, i, err)
					}
				}
				if status != model.StatusComplete {
					return tv.NewTestStepError(status)
				}
				return nil
			})
			if err != nil {
				return err
			}
			res.Steps = append(res.Steps, StepResult{Name: spec.Name, ID: step.ID(), Status: status})
		}

		if s.End != nil {
			return tv.NewTestRunError(res.Status, res.Result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (d descriptors) apply(st *tv.TestStep, a Action) error {
	switch {
	case a.Log != nil:
		severity := model.SeverityInfo
		if a.Log.Severity != "" {
			severity = model.LogSeverity(a.Log.Severity)
		}
		return st.AddLog(severity, a.Log.Message)

	case a.Measurement != nil:
		m := a.Measurement
		value, err := model.ValueOf(m.Value)
		if err != nil {
			return err
		}
		opts, err := d.measurementOptions(m.Unit, m.Validators, m.Hardware, m.Subcomponent, m.Metadata)
		if err != nil {
			return err
		}
		return st.AddMeasurement(m.Name, value, opts...)

	case a.Series != nil:
		return d.applySeries(st, a.Series)

	case a.Diagnosis != nil:
		diag := a.Diagnosis
		var opts []tv.Option
		if diag.Message != "" {
			opts = append(opts, tv.WithMessage(diag.Message))
		}
		opts = append(opts, d.hardwareOptions(diag.Hardware, diag.Subcomponent)...)
		return st.AddDiagnosis(model.DiagnosisType(diag.Type), diag.Verdict, opts...)

	case a.Error != nil:
		e := a.Error
		var opts []tv.Option
		if e.Message != "" {
			opts = append(opts, tv.WithMessage(e.Message))
		}
		if len(e.Software) > 0 {
			infos := make([]*tv.SoftwareInfo, 0, len(e.Software))
			for _, name := range e.Software {
				info, ok := d.software[name]
				if !ok {
					return fmt.Errorf("unknown software %q", name)
				}
				infos = append(infos, info)
			}
			opts = append(opts, tv.WithSoftwareInfos(infos...))
		}
		return st.AddError(e.Symptom, opts...)

	case a.File != nil:
		f := a.File
		var opts []tv.Option
		if f.Snapshot != nil {
			opts = append(opts, tv.WithSnapshot(*f.Snapshot))
		}
		if f.Description != "" {
			opts = append(opts, tv.WithDescription(f.Description))
		}
		if f.ContentType != "" {
			opts = append(opts, tv.WithContentType(f.ContentType))
		}
		if f.Metadata != nil {
			opts = append(opts, tv.WithMetadata(model.Metadata(f.Metadata)))
		}
		return st.AddFile(f.Name, f.URI, opts...)

	case a.Extension != nil:
		return st.AddExtension(a.Extension.Name, a.Extension.Content)
	}
	return fmt.Errorf("empty action")
}

func (d descriptors) applySeries(st *tv.TestStep, ser *SeriesAction) error {
	opts, err := d.measurementOptions(ser.Unit, ser.Validators, ser.Hardware, ser.Subcomponent, ser.Metadata)
	if err != nil {
		return err
	}
	series, err := st.StartMeasurementSeries(ser.Name, opts...)
	if err != nil {
		return err
	}
	return series.Scope(func(ms *tv.MeasurementSeries) error {
		for i, raw := range ser.Values {
			value, err := model.ValueOf(raw)
			if err != nil {
				return fmt.Errorf("values[%d]: %w", i, err)
			}
			if err := ms.AddMeasurement(value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d descriptors) measurementOptions(unit string, validators []ValidatorSpec, hardware string, sub *SubcomponentSpec, md map[string]any) ([]tv.Option, error) {
	var opts []tv.Option
	if unit != "" {
		opts = append(opts, tv.WithUnit(unit))
	}
	if len(validators) > 0 {
		vs := make([]*tv.Validator, 0, len(validators))
		for i, spec := range validators {
			value, err := model.ValueOf(spec.Value)
			if err != nil {
				return nil, fmt.Errorf("validators[%d]: %w", i, err)
			}
			var vopts []tv.ValidatorOption
			if spec.Name != "" {
				vopts = append(vopts, tv.ValidatorName(spec.Name))
			}
			vs = append(vs, tv.NewValidator(model.ValidatorType(spec.Type), value, vopts...))
		}
		opts = append(opts, tv.WithValidators(vs...))
	}
	opts = append(opts, d.hardwareOptions(hardware, sub)...)
	if md != nil {
		opts = append(opts, tv.WithMetadata(model.Metadata(md)))
	}
	return opts, nil
}

func (d descriptors) hardwareOptions(hardware string, sub *SubcomponentSpec) []tv.Option {
	var opts []tv.Option
	if info, ok := d.hardware[hardware]; ok {
		opts = append(opts, tv.WithHardwareInfo(info))
	}
	if sub != nil {
		opts = append(opts, tv.WithSubcomponent(tv.NewSubcomponent(sub.Name, tv.SubcomponentParams{
			Type:     model.SubcomponentType(sub.Type),
			Location: sub.Location,
			Version:  sub.Version,
			Revision: sub.Revision,
		})))
	}
	return opts
}
