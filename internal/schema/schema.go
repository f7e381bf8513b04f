// Package schema embeds the canonical JSON shapes spec.md §6 defines for
// the preprocessed-cache serialization, the same way
// internal/backends/postgres/postgres.go embeds schema.sql rather than
// reading schema files from disk at runtime.
package schema

import _ "embed"

//go:embed normalizedballot.schema.json
var NormalizedBallot []byte

//go:embed tabulatorround.schema.json
var TabulatorRound []byte

//go:embed contestreport.schema.json
var ContestReport []byte
