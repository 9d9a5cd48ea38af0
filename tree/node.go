package tree

// RootID is the fixed identifier of the root node.
const RootID = "root"

// Node is the single entity type of the spatial hierarchy. Nodes live in
// a Snapshot's id-keyed map; containment is expressed through ParentID and
// the parent's Children list, which the mutation surface keeps consistent.
type Node struct {
	// ID is the globally unique node identifier.
	ID string `json:"id" yaml:"id"`

	// Kind is the node's role in the hierarchy.
	Kind Kind `json:"kind" yaml:"kind"`

	// Name is the display name of the node.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// ParentID is the id of the containing node, empty for the root and
	// for detached nodes.
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`

	// Children lists the ids of directly contained nodes in insertion
	// order. The order is meaningful for display, not for correctness.
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`

	// ClassLabel is the format-specific classification, meaningful only
	// for ClassGroup and Object nodes.
	ClassLabel string `json:"class_label,omitempty" yaml:"class_label,omitempty"`

	// Tag is the human-facing asset identifier, Object nodes only.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`

	// PropertySets holds named bags of string properties.
	PropertySets []PropertySet `json:"property_sets,omitempty" yaml:"property_sets,omitempty"`

	// Documents references externally stored attachments by opaque key.
	// The blob itself never lives in the model.
	Documents []DocumentRef `json:"documents,omitempty" yaml:"documents,omitempty"`
}

// PropertySet is a named mapping of property keys to string values.
type PropertySet struct {
	Name  string            `json:"name" yaml:"name"`
	Props map[string]string `json:"props,omitempty" yaml:"props,omitempty"`
}

// DocumentRef points at an attachment held by the host's attachment
// store. Key is the opaque storage key chosen by the host.
type DocumentRef struct {
	Key         string `json:"key" yaml:"key"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// clone returns a deep copy of the node.
func (n *Node) clone() *Node {
	c := *n

	if n.Children != nil {
		c.Children = make([]string, len(n.Children))
		copy(c.Children, n.Children)
	}

	if n.PropertySets != nil {
		c.PropertySets = make([]PropertySet, len(n.PropertySets))
		for i, ps := range n.PropertySets {
			c.PropertySets[i] = ps.clone()
		}
	}

	if n.Documents != nil {
		c.Documents = make([]DocumentRef, len(n.Documents))
		copy(c.Documents, n.Documents)
	}

	return &c
}

// clone returns a deep copy of the property set.
func (ps PropertySet) clone() PropertySet {
	c := PropertySet{Name: ps.Name}
	if ps.Props != nil {
		c.Props = make(map[string]string, len(ps.Props))
		for k, v := range ps.Props {
			c.Props[k] = v
		}
	}
	return c
}

// PropertySet returns the named property set, or nil if absent.
func (n *Node) PropertySet(name string) *PropertySet {
	for i := range n.PropertySets {
		if n.PropertySets[i].Name == name {
			return &n.PropertySets[i]
		}
	}
	return nil
}

// HasChild reports whether id appears in the node's children list.
func (n *Node) HasChild(id string) bool {
	for _, c := range n.Children {
		if c == id {
			return true
		}
	}
	return false
}
