package tagging

import "strings"

// shortCodes maps recognized classification substrings to the short
// codes used by {CLASS}. Matching order matters: more specific
// substrings come first.
var shortCodes = []struct {
	substr string
	code   string
}{
	{"PIPEFITTING", "FTG"},
	{"PIPESEGMENT", "PIPE"},
	{"PIPE", "PIPE"},
	{"PUMP", "PUMP"},
	{"VALVE", "VLV"},
	{"TANK", "TK"},
	{"COMPRESSOR", "CMP"},
	{"HEATEXCHANGER", "HX"},
	{"PROXY", "GEN"},
}

// ShortenClass derives the {CLASS} substitution from a classification
// label: the format prefix is stripped, recognized substrings map to
// short codes, and anything unmatched is uppercased as-is.
func ShortenClass(label string) string {
	u := strings.ToUpper(strings.TrimSpace(label))
	u = strings.TrimPrefix(u, "IFC")

	for _, sc := range shortCodes {
		if strings.Contains(u, sc.substr) {
			return sc.code
		}
	}
	return u
}
