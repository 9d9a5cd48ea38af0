package tree

import (
	"fmt"
	"strings"
)

// SetProperty writes one key of the named property set on an Object
// node, creating the set on first write. A blank set name or key fails
// with ErrBlankName; a missing or non-Object target fails structurally.
// Failed calls return the input snapshot unchanged.
func (s Snapshot) SetProperty(objectID, psetName, key, value string) (Snapshot, error) {
	psetName = strings.TrimSpace(psetName)
	key = strings.TrimSpace(key)
	if psetName == "" || key == "" {
		return s, fmt.Errorf("set property: %w", ErrBlankName)
	}

	if err := s.checkObject("set property", objectID); err != nil {
		return s, err
	}

	r := s.Clone()
	node := r.Node(objectID)

	ps := node.PropertySet(psetName)
	if ps == nil {
		node.PropertySets = append(node.PropertySets, PropertySet{Name: psetName})
		ps = &node.PropertySets[len(node.PropertySets)-1]
	}
	if ps.Props == nil {
		ps.Props = make(map[string]string)
	}
	ps.Props[key] = value
	return r, nil
}

// DeleteProperty removes one key from the named property set on an
// Object node. Deleting a key or set that does not exist is a no-op, not
// an error.
func (s Snapshot) DeleteProperty(objectID, psetName, key string) (Snapshot, error) {
	if err := s.checkObject("delete property", objectID); err != nil {
		return s, err
	}

	node := s.Node(objectID)
	ps := node.PropertySet(psetName)
	if ps == nil || ps.Props == nil {
		return s, nil
	}
	if _, ok := ps.Props[key]; !ok {
		return s, nil
	}

	r := s.Clone()
	delete(r.Node(objectID).PropertySet(psetName).Props, key)
	return r, nil
}

// checkObject verifies the target exists and is an Object node.
func (s Snapshot) checkObject(op, objectID string) error {
	node := s.Node(objectID)
	if node == nil {
		return fmt.Errorf("%s: object %q: %w", op, objectID, ErrNodeNotFound)
	}
	if node.Kind != KindObject {
		return fmt.Errorf("%s: %q is a %s: %w", op, objectID, node.Kind, ErrKindMismatch)
	}
	return nil
}
