// Package tree implements the canonical spatial-hierarchy model of the
// asset registry.
//
// The model is a flat, id-keyed map of typed nodes (an arena) rather than
// a pointer graph. Containment is expressed twice: a node carries its
// parent's id and a parent lists its children's ids, and every committed
// mutation keeps the two sides consistent.
//
// # Snapshots
//
// All operations are pure: they take a Snapshot, deep-copy it, mutate the
// copy, and return it. The input is never modified, so a host can hand the
// current snapshot to concurrent readers (a render surface, an exporter)
// and swap in the result atomically. Operations that fail return the input
// snapshot unchanged alongside a typed error.
//
// # Canonical containment
//
// The canonical order is Root → Project → Site → Building → Storey →
// ClassGroup → Object. It is enforced at the mutation surface: Ensure and
// Move reject (parent, child) kind pairs outside the canonical order with
// ErrKindMismatch instead of letting invalid nesting slip in silently.
//
// # Repair
//
// Repair re-establishes the structural invariants after a bulk load:
// dangling and self-referential child entries are dropped, orphaned parent
// pointers are cleared, nodes whose surviving parent pointer is not yet
// listed are reattached under that parent, and the root node and its
// project list are re-derived. Repair is idempotent. There is no node
// deletion operation;
// detached nodes stay in the map until the host decides what to do with
// them.
package tree
