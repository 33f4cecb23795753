// Package sqlite provides a SQLite-based implementation of the RunStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Every SubmitConfig call records one row
// in the discovery_runs table.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and embedded at compile time. Applied versions are
// tracked in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.knots/data/history.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
