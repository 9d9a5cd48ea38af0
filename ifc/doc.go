// Package ifc serializes a registry snapshot into a STEP-style, line-
// numbered interchange document.
//
// The writer emits a deliberately restricted subset of the format: enough
// for a conservative downstream reader to recover the spatial hierarchy,
// element classification, naming, tags, and property data, and nothing
// else. Geometry is never emitted.
//
// # Document shape
//
// A document is a fixed header block, a body of
//
//	#<n>=<RECORD>(<args>);
//
// lines with n assigned 1, 2, 3, ... in emission order (later records may
// reference earlier ones by number), and a fixed footer.
//
// # Emission order
//
// The prelude is always the same four records: ownership history, the
// default placement, the geometric representation context, and the SI
// length unit. A project record follows, then a depth-first walk of the
// project's sites, buildings, and storeys. Each spatial node emits a
// placement relative to its parent's placement plus its containment
// record; after a level's children are visited, one aggregation record
// ties them to their parent. Elements are emitted per storey, gathered
// through that storey's class groups, together with their property-set
// and containment relation records.
package ifc
