package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"electarchive/internal"
	"electarchive/internal/config"
	"electarchive/internal/storage"
)

const xlsxOutputFile = "election_data.xlsx"

type ProcessingService struct {
	db       *storage.DB
	cfg      config.Config
	strategy StateStrategy
	diag     io.Writer
}

func NewProcessingService(db *storage.DB, cfg config.Config, diag io.Writer) (*ProcessingService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := NewStateStrategy(cfg.StateStrategy, cfg.StateTotalMarkers)
	if err != nil {
		return nil, err
	}
	if diag == nil {
		diag = os.Stderr
	}
	return &ProcessingService{db: db, cfg: cfg, strategy: strategy, diag: diag}, nil
}

type ProcessResult struct {
	RunID        string
	National     int
	State        int
	Skipped      int
	Unmatched    int
	Outcomes     []internal.YearOutcome
	NationalPath string
	StatePath    string
	XLSXPath     string
}

// Run processes every configured year, reconciles the accumulated state
// records against the national ones and writes both tables. Per-year
// failures are reported and skipped; only input, output and storage
// failures abort the run.
func (s *ProcessingService) Run() (ProcessResult, error) {
	start := time.Now().UTC()

	info, err := os.Stat(s.cfg.InputDir)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return ProcessResult{}, fmt.Errorf("input directory: %s is not a directory", s.cfg.InputDir)
	}

	acc := Accumulator{}
	outcomes := []internal.YearOutcome{}
	for year := s.cfg.FirstYear; year <= s.cfg.LastYear; year += s.cfg.YearStep {
		var yearOutcomes []internal.YearOutcome
		acc, yearOutcomes = s.processYear(acc, year)
		outcomes = append(outcomes, yearOutcomes...)
	}

	stats := Reconcile(acc.National, acc.State, s.cfg.UnknownParty)

	result := ProcessResult{
		RunID:        uuid.New().String(),
		National:     len(acc.National),
		State:        len(acc.State),
		Unmatched:    stats.Unmatched,
		Outcomes:     outcomes,
		NationalPath: filepath.Join(s.cfg.OutputDir, s.cfg.NationalOutputFile),
		StatePath:    filepath.Join(s.cfg.OutputDir, s.cfg.StateOutputFile),
	}
	for _, o := range outcomes {
		if o.Status == internal.YearSkipped {
			result.Skipped++
		}
	}

	nationalTable := NationalTable(acc.National)
	stateTable := StateTable(acc.State)
	if err := WriteDelimited(nationalTable, s.cfg.Delimiter(), result.NationalPath); err != nil {
		return ProcessResult{}, fmt.Errorf("write national table: %w", err)
	}
	if err := WriteDelimited(stateTable, s.cfg.Delimiter(), result.StatePath); err != nil {
		return ProcessResult{}, fmt.Errorf("write state table: %w", err)
	}
	if s.cfg.ExportXLSX {
		result.XLSXPath = filepath.Join(s.cfg.OutputDir, xlsxOutputFile)
		if err := ExportTablesToXLSX(nationalTable, stateTable, result.XLSXPath); err != nil {
			return ProcessResult{}, fmt.Errorf("export xlsx: %w", err)
		}
	}

	run := internal.RunSummary{
		ID:            result.RunID,
		StartedAt:     start.Format(time.RFC3339),
		FinishedAt:    time.Now().UTC().Format(time.RFC3339),
		Strategy:      s.strategy.Name(),
		NationalRows:  result.National,
		StateRows:     result.State,
		SkippedYears:  result.Skipped,
		UnmatchedRows: result.Unmatched,
	}
	if err := s.db.SaveRun(run, outcomes, acc.National, acc.State); err != nil {
		return ProcessResult{}, fmt.Errorf("store run: %w", err)
	}

	return result, nil
}

// processYear extracts and reshapes both tables of one year. A failing table
// contributes nothing for that year; the other table is unaffected.
func (s *ProcessingService) processYear(acc Accumulator, year int) (Accumulator, []internal.YearOutcome) {
	fmt.Fprintf(s.diag, "processing year: %d\n", year)
	outcomes := make([]internal.YearOutcome, 0, 2)

	national, err := s.nationalRecords(year)
	if err != nil {
		outcomes = append(outcomes, s.skip(&YearError{Year: year, Table: internal.TableNational, Err: err}))
	} else {
		acc = acc.AppendNational(national)
		outcomes = append(outcomes, internal.YearOutcome{Year: year, Table: internal.TableNational, Status: internal.YearOK, Records: len(national)})
	}

	state, err := s.stateRecords(year)
	if err != nil {
		outcomes = append(outcomes, s.skip(&YearError{Year: year, Table: internal.TableState, Err: err}))
	} else {
		acc = acc.AppendState(state)
		outcomes = append(outcomes, internal.YearOutcome{Year: year, Table: internal.TableState, Status: internal.YearOK, Records: len(state)})
	}

	return acc, outcomes
}

func (s *ProcessingService) nationalRecords(year int) ([]internal.NationalRecord, error) {
	path := filepath.Join(s.cfg.InputDir, fmt.Sprintf(s.cfg.NationalFilePattern, year))
	table, err := ExtractFile(path, s.cfg.NationalTableSelector, s.cfg.HeaderSpliceMarkers)
	if err != nil {
		return nil, err
	}
	return ReshapeNational(table, year)
}

func (s *ProcessingService) stateRecords(year int) ([]internal.StateRecord, error) {
	path := filepath.Join(s.cfg.InputDir, fmt.Sprintf(s.cfg.StateFilePattern, year))
	table, err := ExtractFile(path, s.cfg.StateTableSelector, s.cfg.HeaderSpliceMarkers)
	if err != nil {
		return nil, err
	}
	return s.strategy.Reshape(table, year)
}

func (s *ProcessingService) skip(yerr *YearError) internal.YearOutcome {
	fmt.Fprintf(s.diag, "error, skipped year: %d (%s: %v)\n", yerr.Year, yerr.Table, yerr.Err)
	return internal.YearOutcome{Year: yerr.Year, Table: yerr.Table, Status: internal.YearSkipped, Reason: yerr.Error()}
}
