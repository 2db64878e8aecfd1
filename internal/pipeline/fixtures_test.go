package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"electarchive/internal/config"
)

type nationalRow struct {
	name, party, ev, pv string
}

type stateRow struct {
	state string
	ev    []string
	total string
	pv    []string
}

// nationalHTML renders a national page the way the archive does: the data
// table sits inside a layout table, the first column is a colour swatch and
// the last two columns are notes and a map link.
func nationalHTML(rows []nationalRow) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="layout"><tr><td><table class="results">`)
	b.WriteString(`<thead><tr><th>&nbsp;</th><th>Presidential Candidate</th><th>Political Party</th><th>Electoral Vote</th><th>Popular Vote</th><th>Notes</th><th>Pct</th><th>Map</th></tr></thead><tbody>`)
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr><td>&nbsp;</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>*</td><td>10.0%%</td><td>map</td></tr>`, r.name, r.party, r.ev, r.pv)
	}
	b.WriteString(`<tr><td>&nbsp;</td><td>Total</td><td>&nbsp;</td><td>261</td><td>365,833</td><td>*</td><td>100%</td><td>map</td></tr>`)
	b.WriteString(`</tbody></table></td></tr></table></body></html>`)
	return b.String()
}

// stateHTML renders a state page with a two-row header: grouping cells with
// colspan over the candidate sub-header, plus a decorative spacer column.
func stateHTML(evCandidates, pvCandidates []string, rows []stateRow) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="elections_states"><thead><tr>`)
	fmt.Fprintf(&b, `<th rowspan="2">State</th><th colspan="%d">Electoral Vote</th><th rowspan="2">Total Vote</th><th colspan="%d">Popular Vote</th><th rowspan="2">&nbsp;</th></tr><tr>`, len(evCandidates), len(pvCandidates))
	for _, c := range evCandidates {
		fmt.Fprintf(&b, `<th>%s</th>`, c)
	}
	for _, c := range pvCandidates {
		fmt.Fprintf(&b, `<th>%s</th>`, c)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr><td>%s</td>`, r.state)
		for _, v := range r.ev {
			fmt.Fprintf(&b, `<td>%s</td>`, v)
		}
		fmt.Fprintf(&b, `<td>%s</td>`, r.total)
		for _, v := range r.pv {
			fmt.Fprintf(&b, `<td>%s</td>`, v)
		}
		b.WriteString(`<td>&nbsp;</td></tr>`)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

func national1824() string {
	return nationalHTML([]nationalRow{
		{name: "Andrew Jackson", party: "Democratic-Republican", ev: "99", pv: "151,271"},
		{name: "John Quincy Adams", party: "Democratic-Republican", ev: "84", pv: "113,122"},
		{name: "William H. Crawford", party: "Democratic-Republican", ev: "41", pv: "40,856"},
		{name: "Henry Clay", party: "Democratic-Republican", ev: "37", pv: "47,531"},
	})
}

func state1824() string {
	return stateHTML(
		[]string{"Jackson", "Adams"},
		[]string{"Jackson", "Adams", "Crawford"},
		[]stateRow{
			{state: "Alabama", ev: []string{"5", "-"}, total: "13,604", pv: []string{"9,429", "2,422", "1,656"}},
			{state: "Connecticut", ev: []string{"-", "8"}, total: "10,647", pv: []string{"-", "7,494", "1,965"}},
		},
	)
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(inputDir, outputDir string) config.Config {
	return config.Config{
		InputDir:              inputDir,
		OutputDir:             outputDir,
		DBPath:                filepath.Join(outputDir, "app.db"),
		FirstYear:             1824,
		LastYear:              1824,
		YearStep:              4,
		NationalFilePattern:   "national_results_%d.html",
		StateFilePattern:      "state_results_%d.html",
		NationalTableSelector: "table",
		StateTableSelector:    "table.elections_states",
		StateTotalMarkers:     []string{"total vote", "total"},
		HeaderSpliceMarkers:   []string{"popular vote"},
		StateStrategy:         "header",
		UnknownParty:          "Unknown",
		OutputDelimiter:       "\t",
		NationalOutputFile:    "national_data.txt",
		StateOutputFile:       "state_data.txt",
		SuggestMinSimilarity:  0.7,
	}
}
