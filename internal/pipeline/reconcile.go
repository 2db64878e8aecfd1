package pipeline

import (
	"sort"

	"electarchive/internal"
	"electarchive/internal/roster"
)

type ReconcileStats struct {
	Matched   int
	Unmatched int
}

// Reconcile rewrites candidate and party of every state record in place.
// A state label matches the first national candidate of the same year whose
// name contains it; unmatched records keep their label and get unknownParty.
func Reconcile(national []internal.NationalRecord, state []internal.StateRecord, unknownParty string) ReconcileStats {
	idx := roster.BuildIndex(national)

	byYear := map[int][]int{}
	for i, r := range state {
		byYear[r.Year] = append(byYear[r.Year], i)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	stats := ReconcileStats{}
	for _, year := range years {
		for _, i := range byYear[year] {
			rec := &state[i]
			entry, ok := idx.Lookup(year, rec.PresidentialCandidate)
			if !ok {
				rec.PoliticalParty = unknownParty
				stats.Unmatched++
				continue
			}
			rec.PresidentialCandidate = entry.Name
			rec.PoliticalParty = entry.Party
			stats.Matched++
		}
	}
	return stats
}
