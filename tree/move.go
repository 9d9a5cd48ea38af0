package tree

import "fmt"

// Move relocates a node under a new parent. The detach from the old
// parent and the attach to the new one happen in the same returned
// snapshot, so both sides of the relationship stay consistent.
//
// Move fails, returning the input snapshot unchanged, when either id is
// missing, when the target's kind cannot contain the node's kind under
// the canonical containment order, or when the move would make the node
// its own ancestor.
func (s Snapshot) Move(nodeID, targetParentID string) (Snapshot, error) {
	node := s.Node(nodeID)
	if node == nil {
		return s, fmt.Errorf("move: node %q: %w", nodeID, ErrNodeNotFound)
	}
	target := s.Node(targetParentID)
	if target == nil {
		return s, fmt.Errorf("move: target %q: %w", targetParentID, ErrNodeNotFound)
	}
	if !target.Kind.CanContain(node.Kind) {
		return s, fmt.Errorf("move: cannot place %s under %s: %w", node.Kind, target.Kind, ErrKindMismatch)
	}
	if nodeID == targetParentID || s.IsAncestor(nodeID, targetParentID) {
		return s, fmt.Errorf("move: %q into its own subtree: %w", nodeID, ErrCycle)
	}

	if node.ParentID == targetParentID {
		return s, nil
	}

	r := s.Clone()
	r.detach(nodeID)
	r.attach(targetParentID, nodeID)
	return r, nil
}
