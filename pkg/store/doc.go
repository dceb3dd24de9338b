// Package store persists policies, rules, datasets and violations.
//
// Two backends implement the Store interface: an in-memory map store for
// tests and a SQLite store for single-node deployments. Entity IDs are
// UUIDs assigned at save time; extractor-assigned rule codes are only
// unique within one extraction pass, so rules are persisted per policy
// with replace semantics and addressed by their store ID, never by code.
//
// Violations for a (policy, dataset) pair are superseded wholesale when
// evaluation is re-run for that pair.
package store
