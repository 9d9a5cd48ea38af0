// Package assetkit coordinates a hierarchical asset registry for
// building and plant facilities and exchanges it with a STEP-style
// interchange format.
//
// The registry models spatial containment only: naming, classification,
// tags, and property data. Geometry, rendering, and editor surfaces are
// external collaborators and never enter this module.
//
// # Core Concepts
//
// The module is organized around a handful of packages:
//
//   - tree: the canonical spatial hierarchy (Root → Project → Site →
//     Building → Storey → ClassGroup → Object) with pure, snapshot-in/
//     snapshot-out mutation and repair operations
//   - ifc: the exporter serializing a snapshot into the interchange
//     format's numbered entity records
//   - ingest: the importer/reconciler merging an externally supplied
//     hierarchy back into the model without destroying local edits
//   - ident: global and deterministic identifier generation
//   - tagging: pattern-driven bulk tag generation
//   - store, persist: the attachment and persistence collaborators
//
// # The Registry facade
//
// Registry ties the packages together for hosts that want one handle:
// it owns the current snapshot, swaps it atomically on every mutation,
// and wraps failures in the module's structured Error type.
//
//	reg := assetkit.NewRegistry(assetkit.WithLogger(logger))
//
//	err := reg.Apply(func(s tree.Snapshot) (tree.Snapshot, error) {
//		s, _, err := s.EnsureProject("Plant 7")
//		return s, err
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	doc, err := reg.Export(ctx, ifc.Options{DocumentName: "plant7.ifc"})
//
// Concurrent readers always observe a complete snapshot; a mutation
// either commits whole or leaves the previous snapshot in place.
package assetkit
