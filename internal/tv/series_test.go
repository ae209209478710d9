package tv

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/testutil"
)

func TestSeriesLifecycle(t *testing.T) {
	em := &recordingEmitter{}
	clock := testutil.NewDeterministicClock()
	step := NewTestStep("s", 2, em, StepClock(clock))

	series, err := step.StartMeasurementSeries("fan", WithUnit("RPM"))
	require.NoError(t, err)
	require.NoError(t, series.AddMeasurement(model.Int(1000)))
	require.NoError(t, series.AddMeasurement(model.Int(1100)))
	assert.Equal(t, 2, series.Count())
	require.NoError(t, series.End())

	steps := em.steps(t)
	require.Len(t, steps, 4)

	start := steps[0].Record.(model.MeasurementSeriesStart)
	assert.Equal(t, "fan", start.Name)
	assert.Equal(t, "2_0", start.SeriesID)
	require.NotNil(t, start.Unit)
	assert.Equal(t, "RPM", *start.Unit)
	assert.NotNil(t, start.Validators)

	assert.Equal(t, model.MeasurementSeriesElement{
		Index:     0,
		Value:     model.Int(1000),
		Timestamp: model.Timestamp(testutil.Epoch),
		SeriesID:  "2_0",
	}, steps[1].Record)
	assert.Equal(t, model.MeasurementSeriesElement{
		Index:     1,
		Value:     model.Int(1100),
		Timestamp: model.Timestamp(testutil.Epoch.Add(time.Second)),
		SeriesID:  "2_0",
	}, steps[2].Record)
	assert.Equal(t, model.MeasurementSeriesEnd{SeriesID: "2_0", TotalCount: 2}, steps[3].Record)
}

func TestSeriesExplicitTimestamp(t *testing.T) {
	em := &recordingEmitter{}
	step := NewTestStep("s", 0, em)
	at := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

	series, err := step.StartMeasurementSeries("m")
	require.NoError(t, err)
	require.NoError(t, series.AddMeasurement(model.Float(1.5),
		WithTimestamp(at),
		WithMetadata(model.Metadata{"phase": "warmup"}),
	))

	elem := em.steps(t)[1].Record.(model.MeasurementSeriesElement)
	assert.Equal(t, model.Timestamp(at), elem.Timestamp)
	assert.Equal(t, model.Metadata{"phase": "warmup"}, elem.Metadata)
}

func TestSeriesFailedElementKeepsIndex(t *testing.T) {
	em := &recordingEmitter{}
	step := NewTestStep("s", 0, em)

	series, err := step.StartMeasurementSeries("m")
	require.NoError(t, err)

	boom := errors.New("disk full")
	em.err = boom
	assert.ErrorIs(t, series.AddMeasurement(model.Int(1)), boom)
	assert.Equal(t, 0, series.Count())

	em.err = nil
	require.NoError(t, series.AddMeasurement(model.Int(2)))
	elem := em.steps(t)[1].Record.(model.MeasurementSeriesElement)
	assert.Equal(t, 0, elem.Index)
}

func TestSeriesScopeEndsOnError(t *testing.T) {
	em := &recordingEmitter{}
	step := NewTestStep("s", 0, em)
	series, err := step.StartMeasurementSeries("m")
	require.NoError(t, err)

	boom := errors.New("sensor lost")
	err = series.Scope(func(ms *MeasurementSeries) error {
		require.NoError(t, ms.AddMeasurement(model.Int(5)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	steps := em.steps(t)
	require.Len(t, steps, 3)
	assert.Equal(t, model.MeasurementSeriesEnd{SeriesID: "0_0", TotalCount: 1}, steps[2].Record)
}

func TestSeriesScopeEndsOnPanic(t *testing.T) {
	em := &recordingEmitter{}
	step := NewTestStep("s", 0, em)
	series, err := step.StartMeasurementSeries("m")
	require.NoError(t, err)

	assert.Panics(t, func() {
		_ = series.Scope(func(ms *MeasurementSeries) error { panic("boom") })
	})

	steps := em.steps(t)
	require.Len(t, steps, 2)
	assert.IsType(t, model.MeasurementSeriesEnd{}, steps[1].Record)
}

func TestSeriesScopeJoinsEndError(t *testing.T) {
	em := &recordingEmitter{}
	step := NewTestStep("s", 0, em)
	series, err := step.StartMeasurementSeries("m")
	require.NoError(t, err)

	bodyErr := errors.New("body")
	endErr := errors.New("end")
	err = series.Scope(func(ms *MeasurementSeries) error {
		em.err = endErr
		return bodyErr
	})

	assert.ErrorIs(t, err, bodyErr)
	assert.ErrorIs(t, err, endErr)
}
