package tv

import (
	"time"

	"github.com/roach88/ocptv/internal/model"
)

// Option sets an optional field of an artifact. Each artifact method reads
// the fields it supports and ignores the rest.
type Option func(*artifactConfig)

type artifactConfig struct {
	unit          *string
	validators    []*Validator
	hardwareInfo  *HardwareInfo
	subcomponent  *Subcomponent
	metadata      model.Metadata
	message       *string
	softwareInfos []*SoftwareInfo
	description   *string
	contentType   *string
	isSnapshot    bool
	timestamp     *time.Time
}

func newArtifactConfig(opts []Option) *artifactConfig {
	cfg := &artifactConfig{isSnapshot: true}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithUnit sets the unit of a measurement or measurement series.
func WithUnit(unit string) Option {
	return func(c *artifactConfig) { c.unit = &unit }
}

// WithValidators attaches validators to a measurement or measurement series.
func WithValidators(validators ...*Validator) Option {
	return func(c *artifactConfig) { c.validators = append(c.validators, validators...) }
}

// WithHardwareInfo references the hardware a measurement, series or
// diagnosis is about.
func WithHardwareInfo(info *HardwareInfo) Option {
	return func(c *artifactConfig) { c.hardwareInfo = info }
}

// WithSubcomponent narrows the hardware reference to a subcomponent.
func WithSubcomponent(sub *Subcomponent) Option {
	return func(c *artifactConfig) { c.subcomponent = sub }
}

// WithMetadata attaches arbitrary metadata to a measurement, series, series
// element or file.
func WithMetadata(md model.Metadata) Option {
	return func(c *artifactConfig) { c.metadata = md }
}

// WithMessage sets the message of a diagnosis or error.
func WithMessage(msg string) Option {
	return func(c *artifactConfig) { c.message = &msg }
}

// WithSoftwareInfos references the software an error is attributed to.
func WithSoftwareInfos(infos ...*SoftwareInfo) Option {
	return func(c *artifactConfig) { c.softwareInfos = append(c.softwareInfos, infos...) }
}

// WithDescription sets a file's description.
func WithDescription(desc string) Option {
	return func(c *artifactConfig) { c.description = &desc }
}

// WithContentType sets a file's MIME type.
func WithContentType(ct string) Option {
	return func(c *artifactConfig) { c.contentType = &ct }
}

// WithSnapshot sets whether a file is a snapshot (default true).
func WithSnapshot(snapshot bool) Option {
	return func(c *artifactConfig) { c.isSnapshot = snapshot }
}

// WithTimestamp sets the timestamp of a measurement series element
// (default: the run clock's current time).
func WithTimestamp(ts time.Time) Option {
	return func(c *artifactConfig) { c.timestamp = &ts }
}

func (c *artifactConfig) validatorSpecs() []model.Validator {
	return toSpecs[model.Validator](c.validators)
}

func (c *artifactConfig) hardwareInfoID() *string {
	if c.hardwareInfo == nil {
		return nil
	}
	id := c.hardwareInfo.ToSpec().ID
	return &id
}

func (c *artifactConfig) subcomponentSpec() *model.Subcomponent {
	if c.subcomponent == nil {
		return nil
	}
	spec := c.subcomponent.ToSpec()
	return &spec
}

func (c *artifactConfig) softwareInfoIDs() []string {
	ids := make([]string, 0, len(c.softwareInfos))
	for _, spec := range toSpecs[model.SoftwareInfo](c.softwareInfos) {
		ids = append(ids, spec.ID)
	}
	return ids
}
