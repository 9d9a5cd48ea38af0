// Package ident provides identifier generation for registry nodes and
// interchange documents.
//
// Two families of identifiers are produced:
//
//   - Global identifiers: 128-bit random values compressed into the
//     22-character, 64-symbol encoding the interchange format requires.
//     These are minted once and never recomputed.
//
//   - Deterministic identifiers: content-addressable ids derived from a
//     node type and its identifying values via SHA-256 hashing. The same
//     inputs always produce the same id, which is what makes repeated
//     imports of the same external model idempotent.
//
// # Compressed Encoding
//
// Compress treats a 128-bit value as an unsigned integer and emits 22
// digits of a fixed 64-symbol alphabet, most-significant digit first.
// Each digit carries 6 bits; 22 digits cover 132 bits, so the leading
// digit only ever uses the low 2 of its 6 bits.
//
// # Deterministic IDs
//
// Deterministic ids follow the format:
//
//	{nodeType}:{base64url(sha256(canonical)[:12])}
//
// where the canonical string is the node type joined with its sorted
// key=value pairs. Values are lowercased and trimmed before hashing so
// that cosmetic differences in the source data do not change identity.
package ident
