package tree

import "sort"

// Repair re-establishes the structural invariants of a snapshot after a
// bulk load or an external merge. It is pure and idempotent:
// Repair(Repair(s)) always equals Repair(s).
//
// The pass, in order:
//
//  1. Guarantees a root node exists with the fixed id, root kind, and no
//     parent.
//  2. Clears a node's ParentID when the referenced parent no longer
//     exists or is the node itself.
//  3. Drops self-referential and dangling entries from every children
//     list, and entries whose node already belongs to a different
//     existing parent. Surviving entries get their ParentID set to the
//     listing parent. Parents are visited in sorted id order so the
//     outcome is deterministic.
//  4. Reattaches nodes whose ParentID points at a live parent that does
//     not list them: the parent pointer wins, so the node is appended to
//     that parent's children. When following the pointer would make the
//     node its own ancestor the pointer is cleared instead.
//  5. Restricts root.Children to currently valid Project nodes. If none
//     of the existing entries qualify, the list is re-derived from all
//     Project-kind nodes in the map, sorted by id.
//
// Nodes that end up referenced by no children list are left in the map
// with a cleared ParentID; there is no destroy operation.
func Repair(s Snapshot) Snapshot {
	r := s.Clone()
	if r.Nodes == nil {
		r.Nodes = make(map[string]*Node)
	}

	// Pass 1: root guarantee.
	root := r.Nodes[RootID]
	if root == nil {
		root = &Node{ID: RootID, Kind: KindRoot}
		r.Nodes[RootID] = root
	}
	root.ID = RootID
	root.Kind = KindRoot
	root.ParentID = ""

	// Pass 2: orphaned and self-referential parent pointers.
	for _, n := range r.Nodes {
		if n.ParentID == n.ID || (n.ParentID != "" && r.Nodes[n.ParentID] == nil) {
			n.ParentID = ""
		}
	}

	// Pass 3: children lists. The parent pointer of a child that already
	// belongs to another existing parent wins over a stale list entry.
	ids := make([]string, 0, len(r.Nodes))
	for id := range r.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	claimed := make(map[string]string) // child id -> parent that kept it
	for _, id := range ids {
		n := r.Nodes[id]
		kept := n.Children[:0]
		for _, cid := range n.Children {
			child := r.Nodes[cid]
			switch {
			case cid == n.ID || child == nil:
				// self-referential or dangling
			case claimed[cid] != "" && claimed[cid] != n.ID:
				// already kept under an earlier parent
			case child.ParentID != "" && child.ParentID != n.ID && r.Nodes[child.ParentID] != nil:
				// child points at a different live parent
			default:
				kept = append(kept, cid)
				claimed[cid] = n.ID
				child.ParentID = n.ID
			}
		}
		if len(kept) == 0 {
			n.Children = nil
		} else {
			n.Children = kept
		}
	}

	// Pass 4: nodes claiming a live parent that does not list them. The
	// parent pointer wins, so the node is appended; a pointer that would
	// close a cycle through the parent chain is cleared instead.
	for _, id := range ids {
		n := r.Nodes[id]
		if n.ID == RootID || n.ParentID == "" {
			continue
		}
		parent := r.Nodes[n.ParentID]
		if parent == nil || parent.HasChild(n.ID) {
			continue
		}
		if parentChainReaches(r, n.ParentID, n.ID) {
			n.ParentID = ""
			continue
		}
		parent.Children = append(parent.Children, n.ID)
		claimed[n.ID] = parent.ID
	}

	// Pass 5: root children are projects only.
	var projects []string
	for _, cid := range root.Children {
		if c := r.Nodes[cid]; c != nil && c.Kind == KindProject {
			projects = append(projects, cid)
		}
	}
	for _, cid := range root.Children {
		if c := r.Nodes[cid]; c != nil && c.Kind != KindProject && c.ParentID == RootID {
			c.ParentID = ""
		}
	}
	if len(projects) == 0 {
		for _, p := range r.NodesOfKind(KindProject) {
			projects = append(projects, p.ID)
		}
	}
	root.Children = projects
	for _, cid := range projects {
		// A re-derived project may still be listed under a stale parent
		// from the bulk load; the root claim wins.
		if prev := claimed[cid]; prev != "" && prev != RootID {
			if p := r.Nodes[prev]; p != nil {
				kept := p.Children[:0]
				for _, c := range p.Children {
					if c != cid {
						kept = append(kept, c)
					}
				}
				if len(kept) == 0 {
					p.Children = nil
				} else {
					p.Children = kept
				}
			}
		}
		r.Nodes[cid].ParentID = RootID
	}

	return r
}

// parentChainReaches reports whether walking ParentID pointers up from
// the given node arrives at target. Visited ids are tracked so a
// malformed pointer loop cannot hang the walk.
func parentChainReaches(s Snapshot, from, target string) bool {
	seen := make(map[string]bool)
	for cur := s.Node(from); cur != nil && !seen[cur.ID]; cur = s.Node(cur.ParentID) {
		if cur.ID == target {
			return true
		}
		seen[cur.ID] = true
	}
	return false
}
