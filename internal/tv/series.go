package tv

import (
	"errors"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/output"
)

// MeasurementSeries is a stream of values of one quantity within a step.
// It is created by TestStep.StartMeasurementSeries.
//
// A MeasurementSeries is not safe for concurrent use.
type MeasurementSeries struct {
	emitter stepEmitter
	id      string
	clock   output.Clock
	index   int
}

func newMeasurementSeries(emitter stepEmitter, id string, clock output.Clock, name string, cfg *artifactConfig) (*MeasurementSeries, error) {
	ms := &MeasurementSeries{emitter: emitter, id: id, clock: clock}

	err := emitter.emit(model.MeasurementSeriesStart{
		Name:           name,
		Unit:           cfg.unit,
		SeriesID:       id,
		Validators:     cfg.validatorSpecs(),
		HardwareInfoID: cfg.hardwareInfoID(),
		Subcomponent:   cfg.subcomponentSpec(),
		Metadata:       cfg.metadata,
	})
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// ID returns the series id.
func (ms *MeasurementSeries) ID() string {
	return ms.id
}

// Count returns the number of elements emitted so far.
func (ms *MeasurementSeries) Count() int {
	return ms.index
}

// AddMeasurement emits the next element of the series. Indexes start at 0.
// Supported options: WithTimestamp, WithMetadata.
func (ms *MeasurementSeries) AddMeasurement(value model.Value, opts ...Option) error {
	cfg := newArtifactConfig(opts)

	ts := ms.clock.Now()
	if cfg.timestamp != nil {
		ts = *cfg.timestamp
	}

	err := ms.emitter.emit(model.MeasurementSeriesElement{
		Index:     ms.index,
		Value:     value,
		Timestamp: model.Timestamp(ts),
		SeriesID:  ms.id,
		Metadata:  cfg.metadata,
	})
	if err != nil {
		return err
	}
	ms.index++
	return nil
}

// End emits measurementSeriesEnd with the element count.
func (ms *MeasurementSeries) End() error {
	return ms.emitter.emit(model.MeasurementSeriesEnd{
		SeriesID:   ms.id,
		TotalCount: ms.index,
	})
}

// Scope runs fn and always ends the series afterwards, including when fn
// returns an error or panics.
func (ms *MeasurementSeries) Scope(fn func(*MeasurementSeries) error) (err error) {
	defer func() {
		if endErr := ms.End(); endErr != nil {
			err = errors.Join(err, endErr)
		}
	}()
	return fn(ms)
}
