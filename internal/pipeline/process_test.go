package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"electarchive/internal"
	"electarchive/internal/config"
	"electarchive/internal/storage"
)

func newTestService(t *testing.T, inputDir string, mutate func(*config.Config)) (*ProcessingService, *bytes.Buffer) {
	t.Helper()
	cfg := testConfig(inputDir, t.TempDir())
	if mutate != nil {
		mutate(&cfg)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	diag := &bytes.Buffer{}
	svc, err := NewProcessingService(db, cfg, diag)
	if err != nil {
		t.Fatal(err)
	}
	return svc, diag
}

func writeYear(t *testing.T, dir string, year int, national, state string) {
	t.Helper()
	if national != "" {
		writeFile(t, dir, fmt.Sprintf("national_results_%d.html", year), national)
	}
	if state != "" {
		writeFile(t, dir, fmt.Sprintf("state_results_%d.html", year), state)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(blob), "\n"), "\n")
}

func TestRunSingleYear(t *testing.T) {
	input := t.TempDir()
	writeYear(t, input, 1824, national1824(), state1824())

	svc, diag := newTestService(t, input, func(c *config.Config) { c.ExportXLSX = true })
	res, err := svc.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.National != 4 || res.State != 6 || res.Skipped != 0 {
		t.Fatalf("result=%+v", res)
	}
	if !strings.Contains(diag.String(), "processing year: 1824") {
		t.Fatalf("diagnostics=%q", diag.String())
	}

	national := readLines(t, res.NationalPath)
	if national[0] != "PresidentialCandidate\tPoliticalParty\tElectoralVote\tPopularVote\tPercentage\tYear" {
		t.Fatalf("national header=%q", national[0])
	}
	if national[1] != "Andrew Jackson\tDemocratic-Republican\t99\t151271\t10.0%\t1824" {
		t.Fatalf("national row=%q", national[1])
	}

	state := readLines(t, res.StatePath)
	if len(state) != 7 {
		t.Fatalf("state lines=%d", len(state))
	}
	if state[0] != "State\tPresidentialCandidate\tElectoralVote\tPopularVote\tYear\tPoliticalParty" {
		t.Fatalf("state header=%q", state[0])
	}
	if state[1] != "Alabama\tAndrew Jackson\t5\t9429\t1824\tDemocratic-Republican" {
		t.Fatalf("state row=%q", state[1])
	}
	if _, err := os.Stat(res.XLSXPath); err != nil {
		t.Fatal(err)
	}

	stored, err := svc.db.LoadState()
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 6 {
		t.Fatalf("stored state=%d", len(stored))
	}
}

func TestRunSkipsMalformedYear(t *testing.T) {
	input := t.TempDir()
	writeYear(t, input, 1896, national1824(), state1824())
	// 1900 national page lost its header fragment.
	writeYear(t, input, 1900, `<table><tbody><tr><td>William McKinley</td><td>Republican</td><td>292</td></tr></tbody></table>`, state1824())
	writeYear(t, input, 1904, national1824(), state1824())

	svc, diag := newTestService(t, input, func(c *config.Config) { c.FirstYear, c.LastYear = 1896, 1904 })
	res, err := svc.Run()
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(diag.String(), "error, skipped year: 1900") {
		t.Fatalf("diagnostics=%q", diag.String())
	}
	if res.Skipped != 1 || res.National != 8 || res.State != 18 {
		t.Fatalf("result=%+v", res)
	}

	years := map[string]int{}
	for _, line := range readLines(t, res.NationalPath)[1:] {
		fields := strings.Split(line, "\t")
		years[fields[len(fields)-1]]++
	}
	if years["1900"] != 0 || years["1896"] != 4 || years["1904"] != 4 {
		t.Fatalf("national years=%v", years)
	}

	var skipped *internal.YearOutcome
	for i, o := range res.Outcomes {
		if o.Status == internal.YearSkipped {
			skipped = &res.Outcomes[i]
		}
	}
	if skipped == nil || skipped.Year != 1900 || skipped.Table != internal.TableNational {
		t.Fatalf("outcomes=%+v", res.Outcomes)
	}

	stored, err := svc.db.ListYearOutcomes(res.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 6 {
		t.Fatalf("stored outcomes=%d", len(stored))
	}
}

func TestRunMissingFilesAreSkipped(t *testing.T) {
	input := t.TempDir()
	writeYear(t, input, 1828, national1824(), "")

	svc, diag := newTestService(t, input, func(c *config.Config) { c.FirstYear, c.LastYear = 1824, 1828 })
	res, err := svc.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 3 || res.National != 4 || res.State != 0 {
		t.Fatalf("result=%+v", res)
	}
	for _, want := range []string{"error, skipped year: 1824", "error, skipped year: 1828"} {
		if !strings.Contains(diag.String(), want) {
			t.Fatalf("diagnostics %q missing %q", diag.String(), want)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	input := t.TempDir()
	writeYear(t, input, 1824, national1824(), state1824())

	svc, _ := newTestService(t, input, nil)
	first, err := svc.Run()
	if err != nil {
		t.Fatal(err)
	}
	national1, _ := os.ReadFile(first.NationalPath)
	state1, _ := os.ReadFile(first.StatePath)

	second, err := svc.Run()
	if err != nil {
		t.Fatal(err)
	}
	national2, _ := os.ReadFile(second.NationalPath)
	state2, _ := os.ReadFile(second.StatePath)

	if !bytes.Equal(national1, national2) || !bytes.Equal(state1, state2) {
		t.Fatal("outputs differ between identical runs")
	}
	if first.RunID == second.RunID {
		t.Fatal("run ids must differ")
	}
}

func TestRunMissingInputDir(t *testing.T) {
	svc, _ := newTestService(t, filepath.Join(t.TempDir(), "absent"), nil)
	_, err := svc.Run()
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v", err)
	}
}

func TestRunKeepsStateYearWithBlankCells(t *testing.T) {
	input := t.TempDir()
	state := stateHTML(
		[]string{"Jackson", "Adams"},
		[]string{"Jackson", "Adams", "Crawford"},
		[]stateRow{
			{state: "Alabama", ev: []string{"5", ""}, total: "13,604", pv: []string{"9,429", "2,422", "1,656"}},
			{state: "Connecticut", ev: []string{"&nbsp;", "8"}, total: "10,647", pv: []string{"", "7,494", "1,965"}},
		},
	)
	writeYear(t, input, 1824, national1824(), state)

	svc, diag := newTestService(t, input, nil)
	res, err := svc.Run()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(diag.String(), "skipped") {
		t.Fatalf("diagnostics=%q", diag.String())
	}
	if res.State != 2*3 || res.Skipped != 0 {
		t.Fatalf("result=%+v", res)
	}

	lines := readLines(t, res.StatePath)
	if lines[4] != "Connecticut\tAndrew Jackson\t0\t0\t1824\tDemocratic-Republican" {
		t.Fatalf("state row=%q", lines[4])
	}
}
