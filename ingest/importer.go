package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/plantfabric/assetkit/ident"
	"github.com/plantfabric/assetkit/ifc"
	"github.com/plantfabric/assetkit/tree"
)

// ErrMalformedHierarchy is returned when the supplied raw hierarchy is
// structurally invalid (nil node or blank type tag). The snapshot is
// returned unchanged in that case.
var ErrMalformedHierarchy = errors.New("ingest: malformed hierarchy")

// Importer merges raw hierarchies of one external model into registry
// snapshots. An Importer is safe to reuse across imports of the same
// model; it holds no snapshot state.
type Importer struct {
	modelID string
	source  AttributeSource
	logger  *slog.Logger
	tracer  trace.Tracer
	upserts metric.Int64Counter
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger for degraded-lookup reporting. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) {
		im.logger = logger
	}
}

// WithTracer wraps every Import call in a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(im *Importer) {
		im.tracer = tracer
	}
}

// WithMeter records an upsert counter ("assetkit.ingest.upserts") on the
// given meter.
func WithMeter(meter metric.Meter) Option {
	return func(im *Importer) {
		counter, err := meter.Int64Counter("assetkit.ingest.upserts",
			metric.WithDescription("Nodes upserted by import walks."))
		if err != nil {
			im.logger.Warn("upsert counter unavailable", "error", err)
			return
		}
		im.upserts = counter
	}
}

// New creates an Importer for one external model. The model id seeds the
// deterministic fallback ids, so it must be non-blank; the source is the
// collaborator-supplied attribute lookup.
func New(modelID string, source AttributeSource, opts ...Option) (*Importer, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, fmt.Errorf("ingest: model id must not be blank")
	}
	if source == nil {
		return nil, fmt.Errorf("ingest: attribute source must not be nil")
	}

	im := &Importer{
		modelID: modelID,
		source:  source,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im, nil
}

// Import walks the raw hierarchy depth-first and merges it into the
// snapshot, returning the merged copy. The input snapshot is never
// mutated. A malformed hierarchy returns the input unchanged; a
// cancelled context returns the partial merge alongside the context
// error.
func (im *Importer) Import(ctx context.Context, s tree.Snapshot, roots ...*RawNode) (tree.Snapshot, error) {
	if im.tracer != nil {
		var span trace.Span
		ctx, span = im.tracer.Start(ctx, "Importer.Import",
			trace.WithAttributes(attribute.String("assetkit.model_id", im.modelID)))
		defer span.End()
	}

	for _, root := range roots {
		if err := validateRaw(root); err != nil {
			return s, err
		}
	}

	r := s.Clone()
	if r.Nodes == nil {
		r.Nodes = make(map[string]*tree.Node)
	}
	if r.Node(tree.RootID) == nil {
		r.Nodes[tree.RootID] = &tree.Node{ID: tree.RootID, Kind: tree.KindRoot}
	}

	w := &walker{im: im, snap: r}
	for _, root := range roots {
		if err := w.visit(ctx, root, tree.RootID, ""); err != nil {
			return r, err
		}
	}
	return r, nil
}

// validateRaw rejects nil nodes and blank type tags anywhere in the
// payload before the merge starts, so a malformed hierarchy never leaves
// a partial result behind.
func validateRaw(n *RawNode) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrMalformedHierarchy)
	}
	if strings.TrimSpace(n.Type) == "" {
		return fmt.Errorf("%w: blank type tag", ErrMalformedHierarchy)
	}
	for _, c := range n.Children {
		if err := validateRaw(c); err != nil {
			return err
		}
	}
	return nil
}

// walker threads the current parent id and the nearest enclosing storey
// through the recursion. It owns its snapshot and mutates it in place.
type walker struct {
	im   *Importer
	snap tree.Snapshot
}

// visit handles one raw node. parentID is the id the node attaches
// under; storeyID is the nearest enclosing storey found so far, empty
// until one is visited or synthesized.
func (w *walker) visit(ctx context.Context, raw *RawNode, parentID, storeyID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	kind, spatial := classifyTag(raw.Type)
	if !spatial {
		return w.visitLeaf(ctx, raw, parentID, storeyID)
	}

	attrs := w.im.lookup(ctx, raw.LocalID)

	seed := attrs.GlobalID
	if seed == "" {
		seed = w.im.modelID + "/" + raw.LocalID
	}
	id := ident.Deterministic(kind.String(), map[string]string{"ref": seed})

	// A project is always forced under the root, regardless of how the
	// caller nested it.
	if kind == tree.KindProject {
		parentID = tree.RootID
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	w.upsert(ctx, &tree.Node{
		ID:           id,
		Kind:         kind,
		Name:         attrs.Name,
		PropertySets: attrs.PropertySets,
	}, parentID)

	if kind == tree.KindStorey {
		storeyID = id
	}
	for _, c := range raw.Children {
		if err := w.visit(ctx, c, id, storeyID); err != nil {
			return err
		}
	}
	return nil
}

// visitLeaf handles one leaf element, synthesizing an enclosing storey
// when the walk has not passed one yet.
func (w *walker) visitLeaf(ctx context.Context, raw *RawNode, parentID, storeyID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if storeyID == "" {
		var err error
		storeyID, err = w.synthesizeStorey(ctx, parentID)
		if err != nil {
			return err
		}
	}

	attrs := w.im.lookup(ctx, raw.LocalID)
	classification := ifc.NormalizeClassification(raw.Type)
	groupID, err := w.ensureGroup(ctx, storeyID, classification)
	if err != nil {
		return err
	}

	seed := attrs.GlobalID
	if seed == "" {
		seed = w.im.modelID + "/" + raw.LocalID
	}
	id := ident.Deterministic("object", map[string]string{"ref": seed})

	if err := ctx.Err(); err != nil {
		return err
	}
	w.upsert(ctx, &tree.Node{
		ID:           id,
		Kind:         tree.KindObject,
		Name:         attrs.Name,
		Tag:          attrs.Tag,
		ClassLabel:   classification,
		PropertySets: attrs.PropertySets,
	}, groupID)

	// The source hierarchy may nest leaves; they land under the same
	// storey in their own class groups.
	for _, c := range raw.Children {
		if err := w.visitLeaf(ctx, c, groupID, storeyID); err != nil {
			return err
		}
	}
	return nil
}

// synthesizeStorey produces a storey for elements whose ancestor chain
// contained none. The nearest enclosing building anchors it when one is
// resolvable; otherwise a whole placeholder Project→Building→Storey
// chain is created. All ids are deterministic functions of the model
// identity, never random, so repeated imports stay idempotent.
func (w *walker) synthesizeStorey(ctx context.Context, parentID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if buildingID := w.nearestBuilding(parentID); buildingID != "" {
		storeyID := ident.Deterministic("storey", map[string]string{"building": buildingID})
		w.upsert(ctx, &tree.Node{ID: storeyID, Kind: tree.KindStorey, Name: "Imported Storey"}, buildingID)
		return storeyID, nil
	}

	projectID := ident.Deterministic("project", map[string]string{"model": w.im.modelID})
	buildingID := ident.Deterministic("building", map[string]string{"model": w.im.modelID})
	storeyID := ident.Deterministic("storey", map[string]string{"model": w.im.modelID})

	w.upsert(ctx, &tree.Node{ID: projectID, Kind: tree.KindProject, Name: "Imported Project"}, tree.RootID)
	w.upsert(ctx, &tree.Node{ID: buildingID, Kind: tree.KindBuilding, Name: "Imported Building"}, projectID)
	w.upsert(ctx, &tree.Node{ID: storeyID, Kind: tree.KindStorey, Name: "Imported Storey"}, buildingID)
	return storeyID, nil
}

// nearestBuilding walks the parent chain looking for a Building node.
func (w *walker) nearestBuilding(id string) string {
	seen := make(map[string]bool)
	for cur := w.snap.Node(id); cur != nil && !seen[cur.ID]; cur = w.snap.Node(cur.ParentID) {
		seen[cur.ID] = true
		if cur.Kind == tree.KindBuilding {
			return cur.ID
		}
	}
	return ""
}

// ensureGroup finds or creates the class group for (storey, class)
// inside the walker's owned snapshot.
func (w *walker) ensureGroup(ctx context.Context, storeyID, classification string) (string, error) {
	id := tree.ClassGroupID(storeyID, classification)
	if w.snap.Node(id) == nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		w.snap.Nodes[id] = &tree.Node{
			ID:         id,
			Kind:       tree.KindClassGroup,
			Name:       classification,
			ClassLabel: classification,
		}
		w.link(storeyID, id)
	}
	return id, nil
}

// upsert merges one incoming node into the owned snapshot under the
// given parent. See the package documentation for the merge policy.
func (w *walker) upsert(ctx context.Context, incoming *tree.Node, parentID string) {
	existing := w.snap.Node(incoming.ID)
	if existing == nil {
		psets := incoming.PropertySets
		incoming.PropertySets = nil
		w.snap.Nodes[incoming.ID] = incoming
		mergePropertySets(incoming, psets)
		w.link(parentID, incoming.ID)
		w.count(ctx, incoming.Kind)
		return
	}

	// existing facts win; blanks never clobber local edits
	if existing.Name == "" {
		existing.Name = incoming.Name
	}
	if existing.Tag == "" {
		existing.Tag = incoming.Tag
	}
	if existing.ClassLabel == "" {
		existing.ClassLabel = incoming.ClassLabel
	}
	mergePropertySets(existing, incoming.PropertySets)

	if existing.ParentID == "" {
		w.link(parentID, incoming.ID)
	}
	w.count(ctx, incoming.Kind)
}

// mergePropertySets applies the right-biased merge: sets merge by name,
// incoming keys overwrite, keys only present locally are kept.
func mergePropertySets(node *tree.Node, incoming []tree.PropertySet) {
	for _, in := range incoming {
		target := node.PropertySet(in.Name)
		if target == nil {
			node.PropertySets = append(node.PropertySets, tree.PropertySet{Name: in.Name})
			target = &node.PropertySets[len(node.PropertySets)-1]
		}
		if target.Props == nil && len(in.Props) > 0 {
			target.Props = make(map[string]string, len(in.Props))
		}
		for k, v := range in.Props {
			target.Props[k] = v
		}
	}
}

// link attaches child under parent, keeping both sides consistent.
// Existing children keep their order; re-links are no-ops.
func (w *walker) link(parentID, childID string) {
	parent := w.snap.Node(parentID)
	child := w.snap.Node(childID)
	if parent == nil || child == nil {
		return
	}
	if !parent.HasChild(childID) {
		parent.Children = append(parent.Children, childID)
	}
	child.ParentID = parentID
}

// count records one upsert on the metric counter when configured.
func (w *walker) count(ctx context.Context, kind tree.Kind) {
	if w.im.upserts != nil {
		w.im.upserts.Add(ctx, 1,
			metric.WithAttributes(attribute.String("assetkit.kind", kind.String())))
	}
}
