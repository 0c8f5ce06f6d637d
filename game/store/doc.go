// Package store provides DraftStore implementations for the feedback
// draft persistence contract.
//
// Three adapters are available:
//   - Memory: process-local map, used in tests and as the default
//   - File: one file per key under a directory, human inspectable
//   - SQLite: a single-table database with WAL journaling
//
// WithPrefix namespaces any DraftStore so multiple sessions can share
// one backing store without clobbering each other's drafts.
package store
