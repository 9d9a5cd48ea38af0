// Package persist loads and saves whole tree snapshots as structured
// data for the host's persistence collaborator.
//
// Snapshots serialize to YAML with nodes in sorted-id order so documents
// diff cleanly under version control. Every load runs the tree's repair
// pass before the snapshot is handed back; a snapshot that skipped
// repair never reaches the caller.
package persist

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/plantfabric/assetkit/tree"
)

// formatVersion is written into every document and checked on load.
const formatVersion = 1

// document is the serialized snapshot shape.
type document struct {
	Version int          `yaml:"version"`
	Nodes   []*tree.Node `yaml:"nodes"`
}

// Save writes the snapshot as YAML. Nodes are emitted in sorted-id
// order; the snapshot itself is not modified.
func Save(w io.Writer, s tree.Snapshot) error {
	doc := document{Version: formatVersion}

	doc.Nodes = make([]*tree.Node, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		doc.Nodes = append(doc.Nodes, n)
	}
	sort.Slice(doc.Nodes, func(i, j int) bool { return doc.Nodes[i].ID < doc.Nodes[j].ID })

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

// Load reads a YAML snapshot and repairs it before returning.
func Load(r io.Reader) (tree.Snapshot, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return tree.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if doc.Version != formatVersion {
		return tree.Snapshot{}, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}

	s := tree.Snapshot{Nodes: make(map[string]*tree.Node, len(doc.Nodes))}
	for _, n := range doc.Nodes {
		if n == nil || n.ID == "" {
			continue
		}
		s.Nodes[n.ID] = n
	}
	return tree.Repair(s), nil
}

// SaveFile writes the snapshot to a file, creating or truncating it.
func SaveFile(path string, s tree.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if err := Save(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads and repairs a snapshot from a file.
func LoadFile(path string) (tree.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return tree.Snapshot{}, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
