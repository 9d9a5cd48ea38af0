package ifc

import "strings"

// FallbackClassification is emitted for any label outside the recognized
// set. It is the one element type every conservative reader accepts.
const FallbackClassification = "IFCBUILDINGELEMENTPROXY"

// classPrefix is the required prefix of every element classification in
// the interchange format.
const classPrefix = "IFC"

// recognized is the fixed allow-list of element classifications the
// writer will emit. Labels outside this set collapse to
// FallbackClassification so that every emitted record type is one a
// downstream reader knows.
var recognized = map[string]struct{}{
	"IFCACTUATOR":             {},
	"IFCBOILER":               {},
	"IFCBUILDINGELEMENTPROXY": {},
	"IFCCHILLER":              {},
	"IFCCOMPRESSOR":           {},
	"IFCFAN":                  {},
	"IFCFILTER":               {},
	"IFCFLOWMETER":            {},
	"IFCHEATEXCHANGER":        {},
	"IFCPIPEFITTING":          {},
	"IFCPIPESEGMENT":          {},
	"IFCPUMP":                 {},
	"IFCSENSOR":               {},
	"IFCTANK":                 {},
	"IFCVALVE":                {},
}

// NormalizeClassification maps an arbitrary classification label to a
// member of the fixed allow-list. The label is uppercased and given the
// format prefix when missing; anything that still is not a recognized
// element classification becomes FallbackClassification. UI-invented
// ad-hoc labels therefore always serialize to a type a downstream reader
// accepts.
func NormalizeClassification(label string) string {
	u := strings.ToUpper(strings.TrimSpace(label))
	if u == "" {
		return FallbackClassification
	}
	if !strings.HasPrefix(u, classPrefix) {
		u = classPrefix + u
	}
	if _, ok := recognized[u]; !ok {
		return FallbackClassification
	}
	return u
}
