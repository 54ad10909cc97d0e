// Package sqlite provides the SQLite-backed run ledger.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements driven.RunStore:
//
//   - runs: one row per generate invocation with its final counts
//   - identities: one row per identity outcome
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.headgen/data/runs.db
//
// # Thread Safety
//
// All operations are thread-safe. Concurrent generation workers record
// identities through the same store; SQLite runs in WAL mode with a busy
// timeout.
package sqlite
