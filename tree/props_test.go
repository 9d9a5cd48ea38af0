package tree

import (
	"errors"
	"testing"
)

// buildObject extends buildChain with one ClassGroup and one Object.
func buildObject(t *testing.T) (Snapshot, string) {
	t.Helper()

	s, _, _, _, fid := buildChain(t)
	s, gid, err := s.EnsureClassGroup(fid, "IFCPUMP")
	if err != nil {
		t.Fatalf("EnsureClassGroup: %v", err)
	}

	oid := "object:test-pump"
	s.Nodes[oid] = &Node{ID: oid, Kind: KindObject, Name: "P-101", Tag: "P-101", ClassLabel: "IFCPUMP"}
	s.attach(gid, oid)
	return s, oid
}

func TestSetPropertyCreatesSet(t *testing.T) {
	s, oid := buildObject(t)

	s2, err := s.SetProperty(oid, "Pset_AssetCustom", "System", "Cooling Water")
	if err != nil {
		t.Fatalf("SetProperty: %v", err)
	}

	ps := s2.Node(oid).PropertySet("Pset_AssetCustom")
	if ps == nil {
		t.Fatal("property set was not created")
	}
	if ps.Props["System"] != "Cooling Water" {
		t.Errorf("Props[System] = %q", ps.Props["System"])
	}
	if s.Node(oid).PropertySet("Pset_AssetCustom") != nil {
		t.Error("SetProperty mutated its input snapshot")
	}

	// second write reuses the set
	s3, err := s2.SetProperty(oid, "Pset_AssetCustom", "Fluid", "Water")
	if err != nil {
		t.Fatalf("second SetProperty: %v", err)
	}
	if len(s3.Node(oid).PropertySets) != 1 {
		t.Errorf("second write created %d sets, want 1", len(s3.Node(oid).PropertySets))
	}
}

func TestSetPropertyRejects(t *testing.T) {
	s, oid := buildObject(t)

	if _, err := s.SetProperty(oid, "", "k", "v"); !errors.Is(err, ErrBlankName) {
		t.Errorf("blank set name: error = %v, want ErrBlankName", err)
	}
	if _, err := s.SetProperty("nope", "Pset", "k", "v"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("missing object: error = %v, want ErrNodeNotFound", err)
	}
	if _, err := s.SetProperty(RootID, "Pset", "k", "v"); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("non-object target: error = %v, want ErrKindMismatch", err)
	}
}

func TestDeletePropertyMissingIsNoop(t *testing.T) {
	s, oid := buildObject(t)

	got, err := s.DeleteProperty(oid, "Pset_AssetCustom", "System")
	if err != nil {
		t.Fatalf("DeleteProperty on absent set: %v", err)
	}
	if len(got.Node(oid).PropertySets) != 0 {
		t.Error("no-op delete changed the node")
	}

	s2, _ := s.SetProperty(oid, "Pset_AssetCustom", "System", "Piping")
	got, err = s2.DeleteProperty(oid, "Pset_AssetCustom", "NotThere")
	if err != nil {
		t.Fatalf("DeleteProperty on absent key: %v", err)
	}
	if got.Node(oid).PropertySet("Pset_AssetCustom").Props["System"] != "Piping" {
		t.Error("no-op delete touched other keys")
	}

	got, err = s2.DeleteProperty(oid, "Pset_AssetCustom", "System")
	if err != nil {
		t.Fatalf("DeleteProperty: %v", err)
	}
	if _, ok := got.Node(oid).PropertySet("Pset_AssetCustom").Props["System"]; ok {
		t.Error("key survived deletion")
	}
}

func TestRename(t *testing.T) {
	s, oid := buildObject(t)

	s2, err := s.Rename(oid, "P-102")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if s2.Node(oid).Name != "P-102" {
		t.Errorf("Name = %q, want P-102", s2.Node(oid).Name)
	}

	if _, err := s.Rename(oid, "  "); !errors.Is(err, ErrBlankName) {
		t.Errorf("blank rename: error = %v, want ErrBlankName", err)
	}
	if _, err := s.Rename("nope", "X"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("missing node: error = %v, want ErrNodeNotFound", err)
	}
}

func TestRenameMatching(t *testing.T) {
	s, oid := buildObject(t)

	s2, n, err := s.RenameMatching(`^P-(\d+)$`, "PUMP-$1", KindObject)
	if err != nil {
		t.Fatalf("RenameMatching: %v", err)
	}
	if n != 1 {
		t.Fatalf("changed %d nodes, want 1", n)
	}
	if s2.Node(oid).Name != "PUMP-101" {
		t.Errorf("Name = %q, want PUMP-101", s2.Node(oid).Name)
	}
}

func TestRenameMatchingInvalidPattern(t *testing.T) {
	s, oid := buildObject(t)

	got, n, err := s.RenameMatching(`([`, "x")
	if err == nil {
		t.Fatal("invalid pattern did not fail")
	}
	if n != 0 {
		t.Errorf("changed %d nodes on failure", n)
	}
	if got.Node(oid).Name != "P-101" {
		t.Error("failed rename changed the snapshot")
	}
}
