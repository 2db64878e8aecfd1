package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"electarchive/internal"
)

func national(year int, name, party string) internal.NationalRecord {
	return internal.NationalRecord{
		Year:    year,
		Columns: []string{internal.ColPresidentialCandidate, internal.ColPoliticalParty},
		Values:  map[string]string{internal.ColPresidentialCandidate: name, internal.ColPoliticalParty: party},
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	idx := BuildIndex([]internal.NationalRecord{
		national(1828, "Andrew Jackson", "Democratic"),
		national(1828, "John Quincy Adams", "National Republican"),
		national(1832, "Henry Clay", "National Republican"),
		national(1832, "Andrew Jackson", "Democratic"),
	})

	got, ok := idx.Lookup(1828, "a")
	if !ok || got.Name != "Andrew Jackson" {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
	got, ok = idx.Lookup(1832, "Jackson")
	if !ok || got.Party != "Democratic" {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
	if _, ok := idx.Lookup(1836, "Jackson"); ok {
		t.Fatal("matched a year without candidates")
	}
	if _, ok := idx.Lookup(1828, ""); ok {
		t.Fatal("empty label matched")
	}
}

func TestNames(t *testing.T) {
	idx := BuildIndex([]internal.NationalRecord{
		national(1832, "Henry Clay", "National Republican"),
		national(1828, "Andrew Jackson", "Democratic"),
		national(1828, "", "Democratic"),
	})
	if diff := cmp.Diff([]string{"Andrew Jackson"}, idx.Names(1828)); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
}
