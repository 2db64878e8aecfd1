package pipeline

import (
	"strconv"

	"electarchive/internal"
	"electarchive/internal/util"
)

// Probes are tried in order; the vice-presidential probe must precede the
// generic candidate probe.
var nationalColumnProbes = []struct {
	column string
	probes []string
}{
	{column: internal.ColVicePresidentialCandidate, probes: []string{"vice"}},
	{column: internal.ColPresidentialCandidate, probes: []string{"candidate", "nominee"}},
	{column: internal.ColPoliticalParty, probes: []string{"party"}},
	{column: internal.ColElectoralVote, probes: []string{"electoral"}},
	{column: internal.ColPopularVote, probes: []string{"popular"}},
	{column: internal.ColPercentage, probes: []string{"%", "pct", "percent"}},
}

func canonicalColumn(label string) string {
	for _, p := range nationalColumnProbes {
		if util.ContainsAny(label, p.probes) {
			return p.column
		}
	}
	return util.CompactColumnName(label)
}

// NormalizeNationalHeader maps header labels to canonical column names.
// Repeated names get a numeric suffix so every column stays addressable.
func NormalizeNationalHeader(header []string) []string {
	seen := map[string]int{}
	out := make([]string, 0, len(header))
	for _, h := range header {
		name := canonicalColumn(h)
		seen[name]++
		if n := seen[name]; n > 1 {
			name += strconv.Itoa(n)
		}
		out = append(out, name)
	}
	return out
}
