// Package sqlite provides a SQLite-based implementation of the video library ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - VideoStore: processed video documents with their users and tags
//   - FeedbackStore: free-text user feedback
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// User ids and tags live in their own tables keyed by video id, so attaching a
// user or adding a tag never rewrites the document row.
//
// # Data Location
//
// By default, the database is stored at ~/.askontube/data/askontube.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. The tag limit is enforced inside a single INSERT statement.
package sqlite
