package assetkit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantfabric/assetkit/ifc"
	"github.com/plantfabric/assetkit/ingest"
	"github.com/plantfabric/assetkit/tagging"
	"github.com/plantfabric/assetkit/tree"
)

// stubSource resolves every attribute to a fixed value; nil maps mean
// every lookup comes back empty.
type stubSource struct {
	names map[string]string
	guids map[string]string
}

func (s *stubSource) GlobalID(_ context.Context, _, localID string) (string, error) {
	return s.guids[localID], nil
}

func (s *stubSource) Name(_ context.Context, _, localID string) (string, error) {
	return s.names[localID], nil
}

func (s *stubSource) Tag(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (s *stubSource) PropertySets(_ context.Context, _, _ string) ([]tree.PropertySet, error) {
	return nil, nil
}

// seedChain builds root -> project -> site -> building -> storey and
// returns the snapshot with the storey id.
func seedChain(t *testing.T) (tree.Snapshot, string) {
	t.Helper()

	s := tree.New()
	s, projectID, err := s.EnsureProject("Plant")
	require.NoError(t, err)
	s, siteID, err := s.EnsureSite(projectID, "North Site")
	require.NoError(t, err)
	s, buildingID, err := s.EnsureBuilding(siteID, "Process Hall")
	require.NoError(t, err)
	s, storeyID, err := s.EnsureStorey(buildingID, "Level 1")
	require.NoError(t, err)

	return s, storeyID
}

func TestNewRegistryEmpty(t *testing.T) {
	r := NewRegistry()

	snap := r.Snapshot()
	require.NotNil(t, snap.Root())
	assert.Equal(t, tree.KindRoot, snap.Root().Kind)
	assert.Len(t, snap.Nodes, 1)
}

func TestNewRegistryRepairsSeed(t *testing.T) {
	seed := tree.New()
	// A project that exists but is not listed under the root.
	seed.Nodes["p1"] = &tree.Node{ID: "p1", Kind: tree.KindProject, Name: "Orphan Project"}

	r := NewRegistry(WithSnapshot(seed))

	snap := r.Snapshot()
	require.True(t, snap.Root().HasChild("p1"))
	assert.Equal(t, tree.RootID, snap.Node("p1").ParentID)
}

func TestApplySwapsSnapshot(t *testing.T) {
	r := NewRegistry()

	err := r.Apply(func(s tree.Snapshot) (tree.Snapshot, error) {
		s, _, err := s.EnsureProject("Plant")
		return s, err
	})
	require.NoError(t, err)

	assert.NotNil(t, r.Snapshot().FindChild(tree.RootID, tree.KindProject, "Plant"))
}

func TestApplyFailureKeepsSnapshot(t *testing.T) {
	r := NewRegistry()
	before := r.Snapshot()

	err := r.Apply(func(s tree.Snapshot) (tree.Snapshot, error) {
		return tree.Snapshot{}, tree.ErrBlankName
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrBlankName))
	assert.Equal(t, KindValidation, Classify(err))

	assert.Equal(t, before.Nodes, r.Snapshot().Nodes)
}

func TestExport(t *testing.T) {
	snap, storeyID := seedChain(t)
	snap, groupID, err := snap.EnsureClassGroup(storeyID, "IFCPUMP")
	require.NoError(t, err)
	obj := &tree.Node{
		ID:         "pump-1",
		Kind:       tree.KindObject,
		Name:       "Feed Pump",
		ParentID:   groupID,
		ClassLabel: "IFCPUMP",
	}
	snap.Nodes[obj.ID] = obj
	snap.Node(groupID).Children = append(snap.Node(groupID).Children, obj.ID)

	r := NewRegistry(WithSnapshot(snap))

	doc, err := r.Export(context.Background(), ifc.Options{DocumentName: "plant.ifc"})
	require.NoError(t, err)
	assert.Contains(t, doc, "IFCPUMP(")
	assert.Contains(t, doc, "'Feed Pump'")
}

func TestExportMissingProject(t *testing.T) {
	r := NewRegistry()

	_, err := r.Export(context.Background(), ifc.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ifc.ErrMissingProject))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "Registry.Export", e.Op)
	assert.Equal(t, KindStructural, e.Kind)
}

func TestImport(t *testing.T) {
	r := NewRegistry()
	src := &stubSource{
		names: map[string]string{"1": "Plant", "2": "Yard", "3": "Hall", "4": "L1", "5": "Feed Pump"},
		guids: map[string]string{"5": "6b9b1797-6b5e-4d4b-9a2e-0f4f6f8a1c2d"},
	}
	root := &ingest.RawNode{Type: "IfcProject", LocalID: "1", Children: []*ingest.RawNode{
		{Type: "IfcSite", LocalID: "2", Children: []*ingest.RawNode{
			{Type: "IfcBuilding", LocalID: "3", Children: []*ingest.RawNode{
				{Type: "IfcBuildingStorey", LocalID: "4", Children: []*ingest.RawNode{
					{Type: "IfcPump", LocalID: "5"},
				}},
			}},
		}},
	}}

	require.NoError(t, r.Import(context.Background(), "model-a", src, root))

	snap := r.Snapshot()
	objs := snap.NodesOfKind(tree.KindObject)
	require.Len(t, objs, 1)
	assert.Equal(t, "Feed Pump", objs[0].Name)
	assert.Equal(t, "IFCPUMP", objs[0].ClassLabel)
}

func TestImportMalformedKeepsSnapshot(t *testing.T) {
	r := NewRegistry()
	before := r.Snapshot()

	bad := &ingest.RawNode{Type: "IfcProject", LocalID: "1", Children: []*ingest.RawNode{
		{Type: "   ", LocalID: "2"},
	}}
	err := r.Import(context.Background(), "model-a", &stubSource{}, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingest.ErrMalformedHierarchy))

	assert.Equal(t, before.Nodes, r.Snapshot().Nodes)
}

func TestAssignTags(t *testing.T) {
	snap, storeyID := seedChain(t)
	snap, groupID, err := snap.EnsureClassGroup(storeyID, "IFCPUMP")
	require.NoError(t, err)
	for _, id := range []string{"pump-1", "pump-2"} {
		snap.Nodes[id] = &tree.Node{
			ID: id, Kind: tree.KindObject, Name: id,
			ParentID: groupID, ClassLabel: "IFCPUMP",
		}
		snap.Node(groupID).Children = append(snap.Node(groupID).Children, id)
	}

	r := NewRegistry(WithSnapshot(snap))

	err = r.AssignTags(
		tagging.Options{Pattern: "{CLASS}-{N:3}", Unique: true},
		tagging.Context{},
		"pump-1", "pump-2",
	)
	require.NoError(t, err)

	got := r.Snapshot()
	assert.Equal(t, "PUMP-001", got.Node("pump-1").Tag)
	assert.Equal(t, "PUMP-002", got.Node("pump-2").Tag)
}

func TestAssignTagsFailureKeepsSnapshot(t *testing.T) {
	snap, storeyID := seedChain(t)
	snap, groupID, err := snap.EnsureClassGroup(storeyID, "IFCPUMP")
	require.NoError(t, err)
	snap.Nodes["pump-1"] = &tree.Node{
		ID: "pump-1", Kind: tree.KindObject, Name: "Feed Pump",
		ParentID: groupID, ClassLabel: "IFCPUMP",
	}
	snap.Node(groupID).Children = append(snap.Node(groupID).Children, "pump-1")

	r := NewRegistry(WithSnapshot(snap))

	err = r.AssignTags(
		tagging.Options{Pattern: "{CLASS}-{N:3}"},
		tagging.Context{},
		"pump-1", "no-such-object",
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrNodeNotFound))

	// The first object's tag must not have been committed.
	assert.Empty(t, r.Snapshot().Node("pump-1").Tag)
}

func TestAssignTagsRejectsNonObject(t *testing.T) {
	snap, storeyID := seedChain(t)
	r := NewRegistry(WithSnapshot(snap))

	err := r.AssignTags(tagging.Options{Pattern: "T-{N}"}, tagging.Context{}, storeyID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrKindMismatch))
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	r := NewRegistry()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = r.Apply(func(s tree.Snapshot) (tree.Snapshot, error) {
				s, _, err := s.EnsureProject("Plant")
				return s, err
			})
		}
	}()

	for i := 0; i < 50; i++ {
		snap := r.Snapshot()
		if root := snap.Root(); root == nil {
			t.Fatal("root missing during concurrent access")
		}
	}
	<-done

	assert.Len(t, r.Snapshot().Root().Children, 1)
}

func TestClassifyViaRegistryError(t *testing.T) {
	r := NewRegistry()

	err := r.Apply(func(s tree.Snapshot) (tree.Snapshot, error) {
		_, _, err := s.EnsureSite("missing-project", "Yard")
		return s, err
	})
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindStructural, e.Kind)
	assert.True(t, strings.HasPrefix(e.Error(), "assetkit: "))
}
