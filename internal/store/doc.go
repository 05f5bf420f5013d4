// Package store provides SQLite-backed history of generated documents.
//
// Every `uppmon build` run that is given a database records:
//   - Builds: the written XML, its document hash and the spec directory
//   - Build templates: per monitor, its kind, id range, template hash and
//     the canonical JSON of the monitor spec it came from
//
// # Ordering
//
//   - Builds are ordered by seq INTEGER (assigned on write), never by time
//   - All queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//   - Build ids are UUIDv7, so they also sort by creation time
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Hashes are computed via internal/ir/hash.go using canonical JSON and
// SHA-256 with domain separation.
package store
