// Package output turns artifacts into the OCP output stream.
//
// ArtifactEmitter stamps every artifact with a sequence number and a
// timestamp and hands the encoded line to a Writer. The first emission on an
// emitter is always preceded by the schemaVersion preamble (sequence number 0).
//
// Emission is synchronous: Emit returns only after the Writer has accepted the
// line, and any Writer error is returned to the caller unchanged. There is no
// buffering, retrying or backpressure.
package output
