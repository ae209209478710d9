package tv

import (
	"fmt"

	"github.com/roach88/ocptv/internal/model"
)

// Specifiable is implemented by every descriptor and validator: it converts
// the author-facing object into its wire form.
type Specifiable[T any] interface {
	ToSpec() T
}

// toSpecs converts items in order. The result is never nil.
func toSpecs[T any, S Specifiable[T]](items []S) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToSpec())
	}
	return out
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Validator describes an expected bound for a measurement value.
type Validator struct {
	spec model.Validator
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*model.Validator)

// ValidatorName names a validator.
func ValidatorName(name string) ValidatorOption {
	return func(v *model.Validator) { v.Name = &name }
}

// ValidatorMetadata attaches metadata to a validator.
func ValidatorMetadata(md model.Metadata) ValidatorOption {
	return func(v *model.Validator) { v.Metadata = md }
}

// NewValidator creates a validator comparing measurements against value.
func NewValidator(typ model.ValidatorType, value model.Value, opts ...ValidatorOption) *Validator {
	v := &Validator{spec: model.Validator{Type: typ, Value: value}}
	for _, opt := range opts {
		opt(&v.spec)
	}
	return v
}

// ToSpec implements Specifiable.
func (v *Validator) ToSpec() model.Validator {
	return v.spec
}

// PlatformInfo is a free-form platform tag of a DUT.
type PlatformInfo struct {
	spec model.PlatformInfo
}

// ToSpec implements Specifiable.
func (p *PlatformInfo) ToSpec() model.PlatformInfo {
	return p.spec
}

// SoftwareParams holds the optional fields of a software info.
// Empty strings are left out of the output.
type SoftwareParams struct {
	Type           model.SoftwareType
	Version        string
	Revision       string
	ComputerSystem string
}

// SoftwareInfo describes software running on a DUT.
type SoftwareInfo struct {
	spec model.SoftwareInfo
}

// ID returns the software info id referenced by errors.
func (s *SoftwareInfo) ID() string {
	return s.spec.ID
}

// ToSpec implements Specifiable.
func (s *SoftwareInfo) ToSpec() model.SoftwareInfo {
	return s.spec
}

// HardwareParams holds the optional fields of a hardware info.
// Empty strings are left out of the output.
type HardwareParams struct {
	Version            string
	Revision           string
	Location           string
	SerialNo           string
	PartNo             string
	Manufacturer       string
	ManufacturerPartNo string
	OdataID            string
	ComputerSystem     string
	Manager            string
}

// HardwareInfo describes a hardware component of a DUT.
type HardwareInfo struct {
	spec model.HardwareInfo
}

// ID returns the hardware info id referenced by measurements and diagnoses.
func (h *HardwareInfo) ID() string {
	return h.spec.ID
}

// ToSpec implements Specifiable.
func (h *HardwareInfo) ToSpec() model.HardwareInfo {
	return h.spec
}

// SubcomponentParams holds the optional fields of a subcomponent.
type SubcomponentParams struct {
	Type     model.SubcomponentType
	Location string
	Version  string
	Revision string
}

// Subcomponent identifies a part of a hardware component, e.g. a bus lane.
type Subcomponent struct {
	spec model.Subcomponent
}

// NewSubcomponent creates a subcomponent descriptor.
func NewSubcomponent(name string, params SubcomponentParams) *Subcomponent {
	spec := model.Subcomponent{
		Name:     name,
		Location: optString(params.Location),
		Version:  optString(params.Version),
		Revision: optString(params.Revision),
	}
	if params.Type != "" {
		typ := params.Type
		spec.Type = &typ
	}
	return &Subcomponent{spec: spec}
}

// ToSpec implements Specifiable.
func (s *Subcomponent) ToSpec() model.Subcomponent {
	return s.spec
}

// Dut is the device under test. Descriptors added to it get ids derived from
// the DUT id: "{dut_id}_{n}" with a separate counter per descriptor kind.
type Dut struct {
	id       string
	name     *string
	metadata model.Metadata

	platformInfos []*PlatformInfo
	softwareInfos []*SoftwareInfo
	hardwareInfos []*HardwareInfo
}

// DutOption configures a Dut.
type DutOption func(*Dut)

// DutName sets the DUT's display name.
func DutName(name string) DutOption {
	return func(d *Dut) { d.name = &name }
}

// DutMetadata attaches metadata to the DUT.
func DutMetadata(md model.Metadata) DutOption {
	return func(d *Dut) { d.metadata = md }
}

// NewDut creates a DUT with the given id.
func NewDut(id string, opts ...DutOption) *Dut {
	d := &Dut{id: id}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the DUT id.
func (d *Dut) ID() string {
	return d.id
}

// AddPlatformInfo records a platform tag.
func (d *Dut) AddPlatformInfo(info string) *PlatformInfo {
	p := &PlatformInfo{spec: model.PlatformInfo{Info: info}}
	d.platformInfos = append(d.platformInfos, p)
	return p
}

// AddSoftwareInfo records a software component and returns its descriptor.
func (d *Dut) AddSoftwareInfo(name string, params SoftwareParams) *SoftwareInfo {
	spec := model.SoftwareInfo{
		ID:             fmt.Sprintf("%s_%d", d.id, len(d.softwareInfos)),
		Name:           name,
		Version:        optString(params.Version),
		Revision:       optString(params.Revision),
		ComputerSystem: optString(params.ComputerSystem),
	}
	if params.Type != "" {
		typ := params.Type
		spec.Type = &typ
	}
	s := &SoftwareInfo{spec: spec}
	d.softwareInfos = append(d.softwareInfos, s)
	return s
}

// AddHardwareInfo records a hardware component and returns its descriptor.
func (d *Dut) AddHardwareInfo(name string, params HardwareParams) *HardwareInfo {
	h := &HardwareInfo{spec: model.HardwareInfo{
		ID:                 fmt.Sprintf("%s_%d", d.id, len(d.hardwareInfos)),
		Name:               name,
		Version:            optString(params.Version),
		Revision:           optString(params.Revision),
		Location:           optString(params.Location),
		SerialNumber:       optString(params.SerialNo),
		PartNumber:         optString(params.PartNo),
		Manufacturer:       optString(params.Manufacturer),
		ManufacturerPartNo: optString(params.ManufacturerPartNo),
		OdataID:            optString(params.OdataID),
		ComputerSystem:     optString(params.ComputerSystem),
		Manager:            optString(params.Manager),
	}}
	d.hardwareInfos = append(d.hardwareInfos, h)
	return h
}

// ToSpec implements Specifiable.
func (d *Dut) ToSpec() model.DutInfo {
	return model.DutInfo{
		ID:            d.id,
		Name:          d.name,
		PlatformInfos: toSpecs[model.PlatformInfo](d.platformInfos),
		SoftwareInfos: toSpecs[model.SoftwareInfo](d.softwareInfos),
		HardwareInfos: toSpecs[model.HardwareInfo](d.hardwareInfos),
		Metadata:      d.metadata,
	}
}
