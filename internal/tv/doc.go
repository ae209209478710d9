// Package tv is the author-facing API for OCP Test & Validation output.
//
// A TestRun owns an output stream. Steps created with TestRun.AddStep share
// that stream and stamp every artifact they emit with their own step id.
//
//	run := tv.NewTestRun("diag", "1.0")
//	err := run.Scope(tv.NewDut("dut0"), func(r *tv.TestRun) error {
//		step := r.AddStep("power-on")
//		return step.Scope(func(s *tv.TestStep) error {
//			return s.AddLog(model.SeverityInfo, "booting")
//		})
//	})
//
// Scope helpers emit the start record on entry and the end record on exit.
// Returning a *TestStepError (or *TestRunError) from the body ends the scope
// with the carried status; any other error is returned as is and no end
// record is written.
//
// Thread-safety: a TestStep or MeasurementSeries must not be used from more
// than one goroutine at a time. Distinct steps of one run may emit
// concurrently; the run's emitter serializes the stream.
package tv
