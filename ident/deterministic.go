package ident

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
)

// Deterministic creates a content-addressable id from a node type and its
// identifying values. The id format is:
//
//	{nodeType}:{base64url(sha256(canonical)[:12])}
//
// The canonical string is nodeType:key1=val1|key2=val2|... with keys
// sorted and values trimmed, so the same logical inputs always produce
// the same id regardless of map order or surrounding whitespace. Values
// are hashed case-sensitively: seeds are often compressed identifiers
// whose alphabet distinguishes case, so folding would collide distinct
// ids. Callers wanting case-insensitive keys normalize before calling.
func Deterministic(nodeType string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, strings.TrimSpace(values[k])))
	}

	canonical := fmt.Sprintf("%s:%s", nodeType, strings.Join(pairs, "|"))
	hash := sha256.Sum256([]byte(canonical))
	encoded := base64.RawURLEncoding.EncodeToString(hash[:12])

	return fmt.Sprintf("%s:%s", nodeType, encoded)
}
