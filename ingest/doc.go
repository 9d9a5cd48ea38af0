// Package ingest merges an externally supplied hierarchy into the
// registry without destroying local edits.
//
// The input is minimal: a tree of {type tag, children} nodes produced by
// a model-parsing collaborator, plus an AttributeSource the collaborator
// supplies for looking up per-node attributes (global id, name, tag,
// property sets) keyed by (model, local id). Any single lookup failure
// degrades to "no value" for that attribute; it never aborts the walk.
//
// # Identity
//
// Every upserted node gets a deterministic id derived from its kind and
// its global identifier (or, lacking one, its model-scoped local id).
// Importing the same external model twice therefore adds zero new node
// ids the second time; only externally sourced facts refresh.
//
// # Merge policy
//
// When an id already exists, existing name, tag, and classification win
// over incoming values; a blank or missing incoming value never clears
// a local edit. Children keep their existing order. Property sets merge
// per set name with a right-biased value merge: incoming keys overwrite
// same-named keys, keys only present locally are kept.
//
// # Cancellation
//
// Import checks its context before every upsert. On cancellation it
// stops issuing lookups and returns the snapshot as merged so far along
// with the context error; no node is ever half-written, so the caller
// can keep or discard the partial result as a single unit.
package ingest
