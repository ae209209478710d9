// Package model provides the wire types of the OCP Test & Validation output
// specification, version 2.0.
//
// This package contains record definitions and their JSON encoding only. All
// other internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - Record kinds are closed sets (sealed interfaces), so every consumer can
//     switch over them exhaustively
//   - Ordered collections (validators, softwareInfoIds, dut info lists) are
//     always encoded as arrays, never null
//   - Optional scalars are pointers and are omitted from the wire when nil
//   - All JSON field names use camelCase as in the OCP schema
package model
