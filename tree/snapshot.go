package tree

import (
	"errors"
	"sort"
)

// Errors returned by mutation operations. Failed operations return the
// input snapshot unchanged alongside one of these.
var (
	// ErrNodeNotFound is returned when an operation targets an id that is
	// not present in the snapshot.
	ErrNodeNotFound = errors.New("tree: node not found")

	// ErrKindMismatch is returned when an operation would violate the
	// canonical containment order.
	ErrKindMismatch = errors.New("tree: incompatible node kind")

	// ErrBlankName is returned when a required name or label is blank.
	ErrBlankName = errors.New("tree: blank name")

	// ErrCycle is returned when a move would make a node its own
	// ancestor.
	ErrCycle = errors.New("tree: move would create a cycle")
)

// Snapshot is one immutable state of the spatial hierarchy: a flat map of
// nodes keyed by id. Snapshots are treated as immutable by convention;
// every mutation in this package deep-copies before writing and returns
// the copy.
type Snapshot struct {
	Nodes map[string]*Node `json:"nodes" yaml:"nodes"`
}

// New returns an empty snapshot containing only the root node.
func New() Snapshot {
	return Snapshot{
		Nodes: map[string]*Node{
			RootID: {ID: RootID, Kind: KindRoot},
		},
	}
}

// Clone returns a deep copy of the snapshot. Mutating the copy never
// affects the original.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{Nodes: make(map[string]*Node, len(s.Nodes))}
	for id, n := range s.Nodes {
		c.Nodes[id] = n.clone()
	}
	return c
}

// Node returns the node with the given id, or nil if absent.
func (s Snapshot) Node(id string) *Node {
	if s.Nodes == nil {
		return nil
	}
	return s.Nodes[id]
}

// Root returns the root node, or nil if the snapshot has not been
// repaired yet.
func (s Snapshot) Root() *Node {
	return s.Node(RootID)
}

// ChildrenOf returns the existing child nodes of id in children-list
// order. Dangling entries are skipped.
func (s Snapshot) ChildrenOf(id string) []*Node {
	parent := s.Node(id)
	if parent == nil {
		return nil
	}

	children := make([]*Node, 0, len(parent.Children))
	for _, cid := range parent.Children {
		if c := s.Node(cid); c != nil {
			children = append(children, c)
		}
	}
	return children
}

// ChildrenOfKind returns the existing child nodes of id that have the
// given kind, in children-list order.
func (s Snapshot) ChildrenOfKind(id string, kind Kind) []*Node {
	var out []*Node
	for _, c := range s.ChildrenOf(id) {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FindChild returns the first child of parentID with the given kind and
// name, or nil if none matches.
func (s Snapshot) FindChild(parentID string, kind Kind, name string) *Node {
	for _, c := range s.ChildrenOf(parentID) {
		if c.Kind == kind && c.Name == name {
			return c
		}
	}
	return nil
}

// NodesOfKind returns all nodes of the given kind sorted by id. The sort
// makes results stable across the map's iteration order.
func (s Snapshot) NodesOfKind(kind Kind) []*Node {
	var out []*Node
	for _, n := range s.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsAncestor reports whether ancestorID appears on the parent chain of
// id. A node is not its own ancestor.
func (s Snapshot) IsAncestor(ancestorID, id string) bool {
	seen := make(map[string]bool)
	for cur := s.Node(id); cur != nil && cur.ParentID != ""; {
		if seen[cur.ParentID] {
			return false
		}
		seen[cur.ParentID] = true
		if cur.ParentID == ancestorID {
			return true
		}
		cur = s.Node(cur.ParentID)
	}
	return false
}

// attach links child under parent inside a snapshot that the caller owns
// (already cloned). It updates both sides of the relationship.
func (s Snapshot) attach(parentID, childID string) {
	parent := s.Node(parentID)
	child := s.Node(childID)
	if parent == nil || child == nil {
		return
	}
	if !parent.HasChild(childID) {
		parent.Children = append(parent.Children, childID)
	}
	child.ParentID = parentID
}

// detach unlinks child from its current parent inside a caller-owned
// snapshot. The node stays in the map.
func (s Snapshot) detach(childID string) {
	child := s.Node(childID)
	if child == nil {
		return
	}
	if parent := s.Node(child.ParentID); parent != nil {
		kept := parent.Children[:0]
		for _, c := range parent.Children {
			if c != childID {
				kept = append(kept, c)
			}
		}
		parent.Children = kept
	}
	child.ParentID = ""
}
