// Package view derives read-only projections from decoded casts: a flat header,
// a per-level table, a keyed dictionary, summary statistics, boolean filters and
// spreadsheet export.
//
// Every function here takes a profile.Profile by value and never mutates it, so
// views of the same cast can be built concurrently.
package view
