package tree

// Kind identifies the role of a node in the spatial hierarchy.
type Kind string

const (
	// KindRoot is the single anchor node of every snapshot.
	KindRoot Kind = "root"

	// KindProject is the top-level organizational unit under the root.
	KindProject Kind = "project"

	// KindSite models a geographic site within a project.
	KindSite Kind = "site"

	// KindBuilding models a building or plant structure on a site.
	KindBuilding Kind = "building"

	// KindStorey models one level of a building.
	KindStorey Kind = "storey"

	// KindClassGroup is a synthetic bucket grouping leaf elements of one
	// classification within a storey.
	KindClassGroup Kind = "classgroup"

	// KindObject is a leaf element representing a physical asset.
	KindObject Kind = "object"
)

// IsValid returns true if the kind is one of the defined values.
func (k Kind) IsValid() bool {
	switch k {
	case KindRoot, KindProject, KindSite, KindBuilding, KindStorey, KindClassGroup, KindObject:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsSpatial returns true for kinds that model physical or organizational
// containment (Project, Site, Building, Storey).
func (k Kind) IsSpatial() bool {
	switch k {
	case KindProject, KindSite, KindBuilding, KindStorey:
		return true
	default:
		return false
	}
}

// CanContain reports whether a node of this kind may directly contain a
// child of the given kind under the canonical containment order.
func (k Kind) CanContain(child Kind) bool {
	switch k {
	case KindRoot:
		return child == KindProject
	case KindProject:
		return child == KindSite
	case KindSite:
		return child == KindBuilding
	case KindBuilding:
		return child == KindStorey
	case KindStorey:
		return child == KindClassGroup
	case KindClassGroup:
		return child == KindObject
	default:
		return false
	}
}
