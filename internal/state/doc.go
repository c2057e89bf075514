// Package state provides durable key/value persistence for calculator sessions.
//
// The persistence contract mirrors a browser-extension style storage area:
//   - LoadState(keys) returns the stored documents for the keys that exist
//   - SaveState(values) writes every given key atomically
//
// Values are opaque JSON documents; the vars, history and options packages
// own their encodings.
//
// # Backends
//
//   - Store: SQLite, one row per (session, key)
//   - Memory: map-backed, for tests and ephemeral sessions
//
// Store.Session scopes a Backend to a single session namespace, so two
// sessions sharing a database never observe each other's variables.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The SQLite driver is github.com/mattn/go-sqlite3 by default; building with
// the purego tag switches to modernc.org/sqlite.
package state
