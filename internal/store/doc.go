// Package store provides SQLite-backed durable storage for OCP TV output.
//
// Each emitted stream is stored as a session: an append-only list of lines
// keyed by (session, sequenceNumber). Alongside the raw line the store keeps
// the envelope fields needed for querying (artifact kind, record type, step
// id) and a domain-separated content hash of the line.
//
// # Guarantees
//
//   - Writes are idempotent per (session, seq): replaying a stream into the
//     same session is a no-op.
//   - Reads are ordered by seq, never by timestamp.
//   - Stored hashes are rechecked on read; a mismatch is reported as an error.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Artifacts must belong to a known session
package store
