package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeCell turns non-breaking spaces into plain spaces, collapses runs
// of whitespace and trims the result.
func NormalizeCell(input string) string {
	s := strings.ReplaceAll(input, "\u00a0", " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeLabel is NormalizeCell folded to lower case, used to compare
// header text against configured markers.
func NormalizeLabel(input string) string {
	return strings.ToLower(NormalizeCell(input))
}

// EqualsAny reports whether the normalized label equals one of the markers.
func EqualsAny(label string, markers []string) bool {
	norm := NormalizeLabel(label)
	for _, m := range markers {
		if norm == NormalizeLabel(m) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the normalized label contains one of the probes.
func ContainsAny(label string, probes []string) bool {
	norm := NormalizeLabel(label)
	for _, p := range probes {
		if strings.Contains(norm, NormalizeLabel(p)) {
			return true
		}
	}
	return false
}

// CompactColumnName joins the words of a header label into one token so
// unknown headers stay usable as column names.
func CompactColumnName(input string) string {
	parts := strings.Fields(NormalizeCell(input))
	for i, p := range parts {
		r := []rune(p)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		parts[i] = string(r)
	}
	return strings.Join(parts, "")
}
