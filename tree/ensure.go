package tree

import (
	"fmt"
	"strings"

	"github.com/plantfabric/assetkit/ident"
)

// EnsureProject finds or creates a Project with the given name under the
// root. Calling it twice with the same name returns the same id without
// duplicating structure.
func (s Snapshot) EnsureProject(name string) (Snapshot, string, error) {
	return s.ensureChild(RootID, KindProject, name)
}

// EnsureSite finds or creates a Site with the given name under the given
// project.
func (s Snapshot) EnsureSite(projectID, name string) (Snapshot, string, error) {
	return s.ensureChild(projectID, KindSite, name)
}

// EnsureBuilding finds or creates a Building with the given name under
// the given site.
func (s Snapshot) EnsureBuilding(siteID, name string) (Snapshot, string, error) {
	return s.ensureChild(siteID, KindBuilding, name)
}

// EnsureStorey finds or creates a Storey with the given name under the
// given building.
func (s Snapshot) EnsureStorey(buildingID, name string) (Snapshot, string, error) {
	return s.ensureChild(buildingID, KindStorey, name)
}

// ensureChild is the shared find-or-create behind the Ensure family. The
// logical key is (parent, kind, name); new nodes get a fresh random
// global id.
func (s Snapshot) ensureChild(parentID string, kind Kind, name string) (Snapshot, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, "", fmt.Errorf("ensure %s: %w", kind, ErrBlankName)
	}

	parent := s.Node(parentID)
	if parent == nil {
		return s, "", fmt.Errorf("ensure %s: parent %q: %w", kind, parentID, ErrNodeNotFound)
	}
	if !parent.Kind.CanContain(kind) {
		return s, "", fmt.Errorf("ensure %s: parent %q is a %s: %w", kind, parentID, parent.Kind, ErrKindMismatch)
	}

	if existing := s.FindChild(parentID, kind, name); existing != nil {
		return s, existing.ID, nil
	}

	r := s.Clone()
	id := ident.NewGlobalID()
	r.Nodes[id] = &Node{ID: id, Kind: kind, Name: name}
	r.attach(parentID, id)
	return r, id, nil
}

// EnsureClassGroup finds or creates the ClassGroup for the given
// classification label under the given storey. The group's id is a
// deterministic function of (storeyID, label), so there is at most one
// group per classification per storey no matter how often it is ensured.
func (s Snapshot) EnsureClassGroup(storeyID, classLabel string) (Snapshot, string, error) {
	classLabel = strings.TrimSpace(classLabel)
	if classLabel == "" {
		return s, "", fmt.Errorf("ensure classgroup: %w", ErrBlankName)
	}

	storey := s.Node(storeyID)
	if storey == nil {
		return s, "", fmt.Errorf("ensure classgroup: storey %q: %w", storeyID, ErrNodeNotFound)
	}
	if storey.Kind != KindStorey {
		return s, "", fmt.Errorf("ensure classgroup: %q is a %s: %w", storeyID, storey.Kind, ErrKindMismatch)
	}

	id := ClassGroupID(storeyID, classLabel)
	if s.Node(id) != nil {
		return s, id, nil
	}

	r := s.Clone()
	r.Nodes[id] = &Node{ID: id, Kind: KindClassGroup, Name: classLabel, ClassLabel: classLabel}
	r.attach(storeyID, id)
	return r, id, nil
}

// ClassGroupID computes the deterministic id of the ClassGroup bucketing
// the given classification within the given storey.
func ClassGroupID(storeyID, classLabel string) string {
	return ident.Deterministic("classgroup", map[string]string{
		"storey": storeyID,
		"class":  classLabel,
	})
}
