package pipeline

import (
	"strings"

	"github.com/antzucaro/matchr"

	"electarchive/internal"
	"electarchive/internal/roster"
)

// SuggestMatches lists the distinct unmatched state labels per year, each with
// the most similar national candidate name of that year. Suggestions below
// minSimilarity are left empty. Reconciled records are not modified.
func SuggestMatches(national []internal.NationalRecord, state []internal.StateRecord, unknownParty string, minSimilarity float64) []internal.UnmatchedSuggestion {
	idx := roster.BuildIndex(national)

	type key struct {
		year  int
		label string
	}
	positions := map[key]int{}
	out := []internal.UnmatchedSuggestion{}

	for _, r := range state {
		if r.PoliticalParty != unknownParty {
			continue
		}
		k := key{year: r.Year, label: r.PresidentialCandidate}
		if pos, ok := positions[k]; ok {
			out[pos].Rows++
			continue
		}

		suggestion := internal.UnmatchedSuggestion{Year: r.Year, Label: r.PresidentialCandidate, Rows: 1}
		for _, name := range idx.Names(r.Year) {
			score := similarity(r.PresidentialCandidate, name)
			if score > suggestion.Similarity {
				suggestion.Similarity = score
				suggestion.Suggestion = name
			}
		}
		if suggestion.Similarity < minSimilarity {
			suggestion.Suggestion = ""
		}

		positions[k] = len(out)
		out = append(out, suggestion)
	}
	return out
}

// similarity scores a short label against a full name, taking the best of the
// whole name and each of its words so last-name labels score well.
func similarity(label, name string) float64 {
	label = strings.ToLower(label)
	best := matchr.JaroWinkler(label, strings.ToLower(name), false)
	for _, word := range strings.Fields(name) {
		word = strings.Trim(strings.ToLower(word), "(),.")
		if word == "" {
			continue
		}
		if score := matchr.JaroWinkler(label, word, false); score > best {
			best = score
		}
	}
	return best
}
