package roster

import (
	"strings"

	"electarchive/internal"
)

// Entry is one national candidate as reconciliation sees it.
type Entry struct {
	Name  string
	Party string
}

// Index groups national candidates by year, keeping national table order
// within each year.
type Index struct {
	ByYear map[int][]Entry
}

func BuildIndex(national []internal.NationalRecord) *Index {
	idx := &Index{ByYear: map[int][]Entry{}}
	for _, r := range national {
		name := r.Candidate()
		if name == "" {
			continue
		}
		idx.ByYear[r.Year] = append(idx.ByYear[r.Year], Entry{Name: name, Party: r.Party()})
	}
	return idx
}

// Lookup returns the first entry of the year whose name contains label.
func (idx *Index) Lookup(year int, label string) (Entry, bool) {
	if label == "" {
		return Entry{}, false
	}
	for _, e := range idx.ByYear[year] {
		if strings.Contains(e.Name, label) {
			return e, true
		}
	}
	return Entry{}, false
}

func (idx *Index) Names(year int) []string {
	entries := idx.ByYear[year]
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
