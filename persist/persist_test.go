package persist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/plantfabric/assetkit/tree"
)

func sampleSnapshot(t *testing.T) tree.Snapshot {
	t.Helper()

	s := tree.New()
	s, pid, err := s.EnsureProject("Plant 7")
	if err != nil {
		t.Fatal(err)
	}
	s, sid, _ := s.EnsureSite(pid, "North")
	s, bid, _ := s.EnsureBuilding(sid, "Hall")
	s, fid, _ := s.EnsureStorey(bid, "Level 1")
	s, gid, _ := s.EnsureClassGroup(fid, "IFCVALVE")

	s.Nodes["object:v1"] = &tree.Node{
		ID: "object:v1", Kind: tree.KindObject, Name: "V-1", Tag: "V-1",
		ClassLabel: "IFCVALVE", ParentID: gid,
		PropertySets: []tree.PropertySet{
			{Name: "Pset_AssetCustom", Props: map[string]string{"System": "Piping"}},
		},
		Documents: []tree.DocumentRef{{Key: "doc-1", Name: "datasheet.pdf", Size: 1024}},
	}
	s.Node(gid).Children = append(s.Node(gid).Children, "object:v1")
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := sampleSnapshot(t)

	var buf bytes.Buffer
	if err := Save(&buf, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got.Nodes) != len(s.Nodes) {
		t.Fatalf("loaded %d nodes, want %d", len(got.Nodes), len(s.Nodes))
	}
	obj := got.Node("object:v1")
	if obj == nil {
		t.Fatal("object missing after round trip")
	}
	if obj.Tag != "V-1" || obj.ClassLabel != "IFCVALVE" {
		t.Errorf("object fields lost: %+v", obj)
	}
	if ps := obj.PropertySet("Pset_AssetCustom"); ps == nil || ps.Props["System"] != "Piping" {
		t.Error("property set lost in round trip")
	}
	if len(obj.Documents) != 1 || obj.Documents[0].Key != "doc-1" {
		t.Error("document ref lost in round trip")
	}
}

func TestSaveDeterministicOrder(t *testing.T) {
	s := sampleSnapshot(t)

	var a, b bytes.Buffer
	if err := Save(&a, s); err != nil {
		t.Fatal(err)
	}
	if err := Save(&b, s); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("two saves of the same snapshot differ")
	}
}

func TestLoadRepairs(t *testing.T) {
	// a document with a dangling parent pointer and no root node
	doc := `version: 1
nodes:
  - id: x
    kind: object
    name: loose
    parent_id: gone
`
	got, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Root() == nil {
		t.Fatal("load did not synthesize the root")
	}
	x := got.Node("x")
	if x == nil {
		t.Fatal("node lost on load")
	}
	if x.ParentID != "" {
		t.Errorf("dangling ParentID %q survived load", x.ParentID)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad version", "version: 99\nnodes: []\n"},
		{"not yaml", "{{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.doc)); err == nil {
				t.Error("Load accepted a bad document")
			}
		})
	}
}

func TestSaveLoadFile(t *testing.T) {
	s := sampleSnapshot(t)
	path := t.TempDir() + "/snapshot.yaml"

	if err := SaveFile(path, s); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(got.Nodes) != len(s.Nodes) {
		t.Errorf("loaded %d nodes, want %d", len(got.Nodes), len(s.Nodes))
	}
}
