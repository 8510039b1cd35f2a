// Package store persists rendered tuning specs for a session.
//
// Specs are content-addressed: the row key is a SHA-256 hash over the
// NFC-normalized spec text, so re-rendering an identical candidate is a
// no-op. Storage is SQLite in WAL mode; a session database is a single
// file that can be copied or inspected with stock tooling.
package store
