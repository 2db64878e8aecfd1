package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"electarchive/internal"
	"electarchive/internal/config"
	"electarchive/internal/pipeline"
	"electarchive/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "clean":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		fs.IntVar(&cfg.FirstYear, "from", cfg.FirstYear, "first election year")
		fs.IntVar(&cfg.LastYear, "to", cfg.LastYear, "last election year (inclusive)")
		fs.IntVar(&cfg.YearStep, "step", cfg.YearStep, "years between elections")
		fs.StringVar(&cfg.StateStrategy, "strategy", cfg.StateStrategy, "header|fixed")
		fs.StringVar(&cfg.InputDir, "input", cfg.InputDir, "directory with per-year html files")
		fs.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "directory for the delimited tables")
		fs.BoolVar(&cfg.ExportXLSX, "xlsx", cfg.ExportXLSX, "also write an xlsx workbook")
		_ = fs.Parse(os.Args[2:])

		processor, err := pipeline.NewProcessingService(db, cfg, os.Stderr)
		must(err)
		res, err := processor.Run()
		must(err)
		fmt.Printf("clean done run=%s national=%d state=%d skipped=%d unmatched=%d\n", res.RunID, res.National, res.State, res.Skipped, res.Unmatched)
		fmt.Printf("wrote %s\n", res.NationalPath)
		fmt.Printf("wrote %s\n", res.StatePath)
		if res.XLSXPath != "" {
			fmt.Printf("wrote %s\n", res.XLSXPath)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		run := mustLatestRun(db)
		national, err := db.LoadNational()
		must(err)
		state, err := db.LoadState()
		must(err)
		must(pipeline.ExportTablesToXLSX(pipeline.NationalTable(national), pipeline.StateTable(state), *out))
		fmt.Printf("exported run=%s national=%d state=%d to %s\n", run.ID, len(national), len(state), *out)
	case "report":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		year := fs.Int("year", 0, "only this election year")
		minSim := fs.Float64("min-similarity", cfg.SuggestMinSimilarity, "minimum similarity for a suggestion")
		_ = fs.Parse(os.Args[2:])
		run := mustLatestRun(db)
		national, err := db.LoadNational()
		must(err)
		state, err := db.LoadState()
		must(err)
		suggestions := pipeline.SuggestMatches(national, state, cfg.UnknownParty, *minSim)
		if *year != 0 {
			filtered := suggestions[:0]
			for _, s := range suggestions {
				if s.Year == *year {
					filtered = append(filtered, s)
				}
			}
			suggestions = filtered
		}
		fmt.Printf("run=%s unmatched labels=%d\n", run.ID, len(suggestions))
		pipeline.RenderSuggestions(os.Stdout, suggestions)
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 10, "max runs")
		runID := fs.String("run", "", "show per-year outcomes of this run")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*runID) != "" {
			outcomes, err := db.ListYearOutcomes(*runID)
			must(err)
			pipeline.RenderOutcomes(os.Stdout, outcomes)
			return
		}
		runs, err := db.ListRuns(*limit)
		must(err)
		pipeline.RenderRuns(os.Stdout, runs)
	default:
		usage()
		os.Exit(1)
	}
}

func mustLatestRun(db *storage.DB) internal.RunSummary {
	run, err := db.LatestRun()
	must(err)
	if run == nil {
		must(fmt.Errorf("no stored run, execute clean first"))
	}
	return *run
}

func usage() {
	fmt.Println("usage: electarchive <command>")
	fmt.Println("commands:")
	fmt.Println("  clean [--from=1824] [--to=2012] [--step=4] [--strategy=header|fixed] [--input=dir] [--output=dir] [--xlsx]")
	fmt.Println("  export:xlsx --out=./data/election_data.xlsx")
	fmt.Println("  report [--year=1824] [--min-similarity=0.7]")
	fmt.Println("  runs [--limit=10] [--run=<id>]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
