package ifc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plantfabric/assetkit/ident"
	"github.com/plantfabric/assetkit/tree"
)

// ErrMissingProject is returned when the snapshot contains no Project
// node to anchor the document.
var ErrMissingProject = errors.New("ifc: snapshot contains no project")

// Options configures an export.
type Options struct {
	// DocumentName is written into the file header. Defaults to
	// "Asset Registry".
	DocumentName string

	// Application is the originating-system field of the header.
	// Defaults to "assetkit".
	Application string

	// Now supplies the generation timestamp, defaulting to time.Now.
	// Tests pin it for reproducible headers.
	Now func() time.Time

	// Tracer, when set, wraps the export in a span.
	Tracer trace.Tracer
}

// Export walks a snapshot and renders the interchange document. The
// snapshot is read only; export never mutates it.
func Export(ctx context.Context, s tree.Snapshot, opts Options) (string, error) {
	if opts.Tracer != nil {
		_, span := opts.Tracer.Start(ctx, "ifc.Export")
		defer span.End()
		span.SetAttributes(attribute.Int("assetkit.nodes", len(s.Nodes)))
	}

	if opts.DocumentName == "" {
		opts.DocumentName = "Asset Registry"
	}
	if opts.Application == "" {
		opts.Application = "assetkit"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	project := findProject(s)
	if project == nil {
		return "", ErrMissingProject
	}

	w := &writer{}
	ts := opts.Now().UTC()

	// Fixed prelude, always these four records in this order.
	history := w.add("IFCOWNERHISTORY($,$,$,.ADDED.,$,$,$,%d)", ts.Unix())
	basePlacement := w.add("IFCLOCALPLACEMENT($,$)")
	geomContext := w.add("IFCGEOMETRICREPRESENTATIONCONTEXT($,'Model',3,1.0E-5,$,$)")
	lengthUnit := w.add("IFCSIUNIT(*,.LENGTHUNIT.,$,.METRE.)")

	projectNum := w.add("IFCPROJECT(%s,#%d,%s,$,$,$,$,(#%d),#%d)",
		quote(ident.NewGlobalID()), history, optText(project.Name), geomContext, lengthUnit)

	type storeyEntity struct {
		node      *tree.Node
		num       int
		placement int
	}
	var storeys []storeyEntity

	// Depth-first over Site -> Building -> Storey; aggregation records
	// follow the children of each level.
	var siteNums []int
	for _, site := range s.ChildrenOfKind(project.ID, tree.KindSite) {
		sitePl := w.add("IFCLOCALPLACEMENT(#%d,$)", basePlacement)
		siteNum := w.add("IFCSITE(%s,#%d,%s,$,$,#%d,$,$)",
			quote(ident.NewGlobalID()), history, optText(site.Name), sitePl)
		siteNums = append(siteNums, siteNum)

		var buildingNums []int
		for _, building := range s.ChildrenOfKind(site.ID, tree.KindBuilding) {
			buildingPl := w.add("IFCLOCALPLACEMENT(#%d,$)", sitePl)
			buildingNum := w.add("IFCBUILDING(%s,#%d,%s,$,$,#%d,$,$)",
				quote(ident.NewGlobalID()), history, optText(building.Name), buildingPl)
			buildingNums = append(buildingNums, buildingNum)

			var storeyNums []int
			for _, storey := range s.ChildrenOfKind(building.ID, tree.KindStorey) {
				storeyPl := w.add("IFCLOCALPLACEMENT(#%d,$)", buildingPl)
				storeyNum := w.add("IFCBUILDINGSTOREY(%s,#%d,%s,$,$,#%d,$,$)",
					quote(ident.NewGlobalID()), history, optText(storey.Name), storeyPl)
				storeyNums = append(storeyNums, storeyNum)
				storeys = append(storeys, storeyEntity{node: storey, num: storeyNum, placement: storeyPl})
			}
			if len(storeyNums) > 0 {
				w.add("IFCRELAGGREGATES(%s,#%d,$,$,#%d,%s)",
					quote(ident.NewGlobalID()), history, buildingNum, refList(storeyNums))
			}
		}
		if len(buildingNums) > 0 {
			w.add("IFCRELAGGREGATES(%s,#%d,$,$,#%d,%s)",
				quote(ident.NewGlobalID()), history, siteNum, refList(buildingNums))
		}
	}
	if len(siteNums) > 0 {
		w.add("IFCRELAGGREGATES(%s,#%d,$,$,#%d,%s)",
			quote(ident.NewGlobalID()), history, projectNum, refList(siteNums))
	}

	// Elements per storey, reachable through the storey's class groups.
	// The lookup is exactly two levels deep.
	for _, se := range storeys {
		var elementNums []int
		for _, group := range s.ChildrenOfKind(se.node.ID, tree.KindClassGroup) {
			for _, obj := range s.ChildrenOfKind(group.ID, tree.KindObject) {
				elementNums = append(elementNums, writeElement(w, s, history, se.placement, group, obj))
			}
		}
		if len(elementNums) > 0 {
			w.add("IFCRELCONTAINEDINSPATIALSTRUCTURE(%s,#%d,$,$,%s,#%d)",
				quote(ident.NewGlobalID()), history, refList(elementNums), se.num)
		}
	}

	return render(opts, ts, w), nil
}

// writeElement emits the placement, element, and property records of one
// object and returns the element's entity number.
func writeElement(w *writer, s tree.Snapshot, history, storeyPlacement int, group, obj *tree.Node) int {
	label := obj.ClassLabel
	if label == "" {
		label = group.ClassLabel
	}

	placement := w.add("IFCLOCALPLACEMENT(#%d,$)", storeyPlacement)
	elementNum := w.add("%s(%s,#%d,%s,$,%s,#%d,$,%s)",
		NormalizeClassification(label),
		quote(ident.NewGlobalID()), history, optText(obj.Name), optText(label), placement, optText(obj.Tag))

	for _, ps := range obj.PropertySets {
		keys := make([]string, 0, len(ps.Props))
		for k := range ps.Props {
			if strings.TrimSpace(k) != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			continue
		}
		sort.Strings(keys)

		valueNums := make([]int, 0, len(keys))
		for _, k := range keys {
			valueNums = append(valueNums,
				w.add("IFCPROPERTYSINGLEVALUE(%s,$,%s,$)", quote(k), typedValue(ps.Props[k])))
		}
		setNum := w.add("IFCPROPERTYSET(%s,#%d,%s,$,%s)",
			quote(ident.NewGlobalID()), history, quote(ps.Name), refList(valueNums))
		w.add("IFCRELDEFINESBYPROPERTIES(%s,#%d,$,$,(#%d),#%d)",
			quote(ident.NewGlobalID()), history, elementNum, setNum)
	}

	return elementNum
}

// findProject returns the project anchoring the export: the root's first
// Project child, falling back to any Project node in the map.
func findProject(s tree.Snapshot) *tree.Node {
	if root := s.Root(); root != nil {
		if projects := s.ChildrenOfKind(root.ID, tree.KindProject); len(projects) > 0 {
			return projects[0]
		}
	}
	if projects := s.NodesOfKind(tree.KindProject); len(projects) > 0 {
		return projects[0]
	}
	return nil
}

// writer accumulates numbered entity records. Numbers are assigned
// 1, 2, 3, ... in emission order.
type writer struct {
	lines []string
	next  int
}

// add appends one record and returns its entity number.
func (w *writer) add(format string, args ...any) int {
	w.next++
	w.lines = append(w.lines, fmt.Sprintf("#%d=", w.next)+fmt.Sprintf(format, args...)+";")
	return w.next
}

// refList renders entity numbers as an aggregate argument: (#5,#6,#9).
func refList(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("#%d", n)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// render concatenates header, body, and footer into one document.
func render(opts Options, ts time.Time, w *writer) string {
	var b strings.Builder
	b.WriteString("ISO-10303-21;\n")
	b.WriteString("HEADER;\n")
	b.WriteString("FILE_DESCRIPTION(('ViewDefinition [CoordinationView]'),'2;1');\n")
	fmt.Fprintf(&b, "FILE_NAME(%s,'%s',(''),(''),%s,'','');\n",
		quote(opts.DocumentName), ts.Format("2006-01-02T15:04:05"), quote(opts.Application))
	b.WriteString("FILE_SCHEMA(('IFC4'));\n")
	b.WriteString("ENDSEC;\n")
	b.WriteString("DATA;\n")
	for _, line := range w.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("ENDSEC;\n")
	b.WriteString("END-ISO-10303-21;\n")
	return b.String()
}
