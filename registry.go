package assetkit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/plantfabric/assetkit/ifc"
	"github.com/plantfabric/assetkit/ingest"
	"github.com/plantfabric/assetkit/tagging"
	"github.com/plantfabric/assetkit/tree"
)

// Registry is the host-facing facade over the registry core. It owns
// the current snapshot and swaps it atomically on every mutation, so
// concurrent readers never observe a partially-mutated tree.
//
// Thread-safety: all methods are safe for concurrent use. Snapshots
// handed out by Snapshot() are immutable by convention; callers must
// not modify them.
type Registry struct {
	mu   sync.RWMutex
	snap tree.Snapshot

	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
}

// NewRegistry creates a registry. Without WithSnapshot it starts from
// an empty tree; a seeded snapshot is repaired before use.
func NewRegistry(opts ...Option) *Registry {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	snap := tree.New()
	if cfg.snapshot != nil {
		snap = tree.Repair(*cfg.snapshot)
	}

	return &Registry{
		snap:   snap,
		logger: cfg.logger,
		tracer: cfg.tracer,
		meter:  cfg.meter,
	}
}

// Snapshot returns the current snapshot.
func (r *Registry) Snapshot() tree.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Apply runs a pure mutation against the current snapshot and swaps in
// the result. When fn fails the previous snapshot stays in place and
// the error is returned wrapped.
func (r *Registry) Apply(fn func(tree.Snapshot) (tree.Snapshot, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := fn(r.snap)
	if err != nil {
		return wrap("Registry.Apply", err)
	}
	r.snap = next
	return nil
}

// Repair runs the tree's repair pass over the current snapshot.
func (r *Registry) Repair() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = tree.Repair(r.snap)
}

// Export serializes the current snapshot into an interchange document.
// The registry's tracer is used unless opts carries its own.
func (r *Registry) Export(ctx context.Context, opts ifc.Options) (string, error) {
	if opts.Tracer == nil {
		opts.Tracer = r.tracer
	}

	doc, err := ifc.Export(ctx, r.Snapshot(), opts)
	if err != nil {
		return "", wrap("Registry.Export", err)
	}
	return doc, nil
}

// Import merges an external model's hierarchy into the registry. On a
// cancelled context the partial merge is discarded as a single unit;
// the previous snapshot stays in place.
func (r *Registry) Import(ctx context.Context, modelID string, source ingest.AttributeSource, roots ...*ingest.RawNode) error {
	iopts := []ingest.Option{ingest.WithLogger(r.logger)}
	if r.tracer != nil {
		iopts = append(iopts, ingest.WithTracer(r.tracer))
	}
	if r.meter != nil {
		iopts = append(iopts, ingest.WithMeter(r.meter))
	}

	im, err := ingest.New(modelID, source, iopts...)
	if err != nil {
		return wrap("Registry.Import", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := im.Import(ctx, r.snap, roots...)
	if err != nil {
		return wrap("Registry.Import", err)
	}
	r.snap = next
	return nil
}

// AssignTags generates and writes tags for the given Object nodes in
// order, using each object's classification for {CLASS} and the
// snapshot's existing tags as the collision set. The whole batch
// commits or fails as one unit.
func (r *Registry) AssignTags(opts tagging.Options, tctx tagging.Context, objectIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, err := tagging.NewBatch(opts, tctx, tagging.UsedTags(r.snap))
	if err != nil {
		return wrap("Registry.AssignTags", err)
	}

	next := r.snap.Clone()
	for _, id := range objectIDs {
		node := next.Node(id)
		if node == nil {
			return wrap("Registry.AssignTags", fmt.Errorf("object %q: %w", id, tree.ErrNodeNotFound))
		}
		if node.Kind != tree.KindObject {
			return wrap("Registry.AssignTags", fmt.Errorf("%q is a %s: %w", id, node.Kind, tree.ErrKindMismatch))
		}

		tag, err := batch.Next(node.ClassLabel)
		if err != nil {
			return wrap("Registry.AssignTags", err)
		}
		node.Tag = tag
	}

	r.snap = next
	return nil
}
