// Package schema checks OCP TV output against the 2.0 schema.
//
// Line-level checks unify each JSON line with the embedded CUE definition
// #Root. Stream-level checks track what a single line cannot show: the
// preamble comes first, sequence numbers increase, and step and series
// artifacts refer to a step or series that is open at that point.
//
// The emitting packages never call into schema; it is a downstream checker
// used by the validate command and by tests.
package schema
