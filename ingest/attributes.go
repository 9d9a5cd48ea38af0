package ingest

import (
	"context"
	"strings"

	"github.com/plantfabric/assetkit/tree"
)

// RawNode is one node of the externally supplied minimal hierarchy: a
// type tag, the model-local identifier the AttributeSource is keyed by,
// and nested children of the same shape.
type RawNode struct {
	// Type is the external type tag, e.g. "IfcBuilding" or "IfcValve".
	// Unrecognized and non-spatial tags are treated as leaf elements.
	Type string

	// LocalID identifies the node within its source model.
	LocalID string

	// Children are the nested nodes.
	Children []*RawNode
}

// Attributes is the resolved attribute set of one visited node. Every
// field is optional; a zero value means the source had nothing.
type Attributes struct {
	GlobalID     string
	Name         string
	Tag          string
	PropertySets []tree.PropertySet
}

// AttributeSource resolves per-node attributes from the source model.
// Implementations are supplied by the model-parsing collaborator and may
// suspend (network, database) on every call; the importer queries each
// attribute individually and treats any error as "no value".
type AttributeSource interface {
	// GlobalID returns the node's globally unique identifier, or empty.
	GlobalID(ctx context.Context, modelID, localID string) (string, error)

	// Name returns the node's display name, or empty.
	Name(ctx context.Context, modelID, localID string) (string, error)

	// Tag returns the node's asset tag, or empty.
	Tag(ctx context.Context, modelID, localID string) (string, error)

	// PropertySets returns the node's property sets, or nil.
	PropertySets(ctx context.Context, modelID, localID string) ([]tree.PropertySet, error)
}

// lookup resolves all four attributes of one node. A node's own lookups
// all complete before its upsert because the deterministic id depends on
// the resolved global id. Failures degrade per field.
func (im *Importer) lookup(ctx context.Context, localID string) Attributes {
	var a Attributes

	if v, err := im.source.GlobalID(ctx, im.modelID, localID); err == nil {
		a.GlobalID = strings.TrimSpace(v)
	} else {
		im.logger.Debug("attribute lookup degraded to absent",
			"attribute", "global_id", "local_id", localID, "error", err)
	}
	if v, err := im.source.Name(ctx, im.modelID, localID); err == nil {
		a.Name = strings.TrimSpace(v)
	} else {
		im.logger.Debug("attribute lookup degraded to absent",
			"attribute", "name", "local_id", localID, "error", err)
	}
	if v, err := im.source.Tag(ctx, im.modelID, localID); err == nil {
		a.Tag = strings.TrimSpace(v)
	} else {
		im.logger.Debug("attribute lookup degraded to absent",
			"attribute", "tag", "local_id", localID, "error", err)
	}
	if v, err := im.source.PropertySets(ctx, im.modelID, localID); err == nil {
		a.PropertySets = v
	} else {
		im.logger.Debug("attribute lookup degraded to absent",
			"attribute", "property_sets", "local_id", localID, "error", err)
	}

	return a
}

// classifyTag maps an external type tag to a spatial kind. The second
// return is false for leaf elements, which is every tag the importer
// does not positively recognize as spatial.
func classifyTag(tag string) (tree.Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "IFCPROJECT", "PROJECT":
		return tree.KindProject, true
	case "IFCSITE", "SITE":
		return tree.KindSite, true
	case "IFCBUILDING", "BUILDING":
		return tree.KindBuilding, true
	case "IFCBUILDINGSTOREY", "IFCSTOREY", "STOREY":
		return tree.KindStorey, true
	default:
		return "", false
	}
}
