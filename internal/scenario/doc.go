// Package scenario drives a test run from a declarative YAML file.
//
// A scenario names the run, describes the DUT and lists steps. Each step is
// an ordered list of actions (log, measurement, series, diagnosis, error,
// file) and may end early with a non-COMPLETE status. Execute replays the
// file through the tv API, so a scenario produces exactly the output a
// hand-written diagnostic making the same calls would.
//
// Example:
//
//	name: memcheck
//	version: "1.0"
//	dut:
//	  id: host-1
//	  hardware:
//	    - name: dimm0
//	steps:
//	  - name: read-temp
//	    actions:
//	      - measurement: {name: temp, value: 41.5, unit: C, hardware: dimm0}
package scenario
