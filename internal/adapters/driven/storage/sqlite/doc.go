// Package sqlite provides SQLite-backed implementations of the durable
// storage ports: chunk persistence for index rebuilds, conversation
// sessions and query metrics. A single database file backs all three,
// opened in WAL mode with embedded schema migrations.
package sqlite
