package ifc

import (
	"strconv"
	"strings"
)

// typedValue renders one property value string as a typed format value.
// The typing rules, tried in order:
//
//	blank                      -> $ (null marker)
//	true / false (any case)    -> IFCBOOLEAN(.T.) / IFCBOOLEAN(.F.)
//	bare integer literal       -> IFCINTEGER(n)
//	decimal literal            -> IFCREAL(x.y)
//	anything else              -> IFCTEXT('escaped')
func typedValue(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "$"
	}

	switch strings.ToLower(v) {
	case "true":
		return "IFCBOOLEAN(.T.)"
	case "false":
		return "IFCBOOLEAN(.F.)"
	}

	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return "IFCINTEGER(" + strconv.FormatInt(i, 10) + ")"
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		formatted := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(formatted, ".") {
			formatted += "."
		}
		return "IFCREAL(" + formatted + ")"
	}

	return "IFCTEXT(" + quote(v) + ")"
}

// quote renders a text argument with format escaping: backslashes and
// quote characters are each doubled.
func quote(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", "''")
	return "'" + escaped + "'"
}

// optText renders an optional text argument: blank becomes the null
// marker, anything else a quoted string.
func optText(s string) string {
	if strings.TrimSpace(s) == "" {
		return "$"
	}
	return quote(s)
}
