package tree

import (
	"fmt"
	"regexp"
	"strings"
)

// Rename sets a node's display name. A blank name fails with
// ErrBlankName; a missing node fails with ErrNodeNotFound. Failed calls
// return the input snapshot unchanged.
func (s Snapshot) Rename(nodeID, name string) (Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, fmt.Errorf("rename: %w", ErrBlankName)
	}
	node := s.Node(nodeID)
	if node == nil {
		return s, fmt.Errorf("rename: node %q: %w", nodeID, ErrNodeNotFound)
	}
	if node.Name == name {
		return s, nil
	}

	r := s.Clone()
	r.Node(nodeID).Name = name
	return r, nil
}

// RenameMatching applies a regular-expression replacement to the names
// of all nodes of the given kinds (all kinds when none are given) and
// returns the new snapshot plus the number of nodes whose name changed.
// An invalid pattern aborts the whole call, leaving the tree unchanged.
// Replacements producing a blank name are skipped for that node.
func (s Snapshot) RenameMatching(pattern, replacement string, kinds ...Kind) (Snapshot, int, error) {
	if pattern == "" {
		return s, 0, fmt.Errorf("rename matching: %w", ErrBlankName)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return s, 0, fmt.Errorf("rename matching: %w", err)
	}

	wanted := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}

	r := s.Clone()
	changed := 0
	for _, n := range r.Nodes {
		if len(wanted) > 0 && !wanted[n.Kind] {
			continue
		}
		if n.Name == "" || !re.MatchString(n.Name) {
			continue
		}
		next := re.ReplaceAllString(n.Name, replacement)
		if strings.TrimSpace(next) == "" || next == n.Name {
			continue
		}
		n.Name = next
		changed++
	}

	if changed == 0 {
		return s, 0, nil
	}
	return r, changed, nil
}
