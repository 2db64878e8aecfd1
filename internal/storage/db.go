package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"electarchive/internal"
)

const latestRunKey = "results.latest_run"

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  startedAt TEXT NOT NULL,
  finishedAt TEXT NOT NULL,
  strategy TEXT NOT NULL,
  nationalRows INTEGER NOT NULL,
  stateRows INTEGER NOT NULL,
  skippedYears INTEGER NOT NULL,
  unmatchedRows INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS year_outcomes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  year INTEGER NOT NULL,
  tableKind TEXT NOT NULL,
  status TEXT NOT NULL,
  records INTEGER NOT NULL,
  reason TEXT,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_year_outcomes_runId ON year_outcomes(runId);

CREATE TABLE IF NOT EXISTS national_results (
  position INTEGER PRIMARY KEY,
  runId TEXT NOT NULL,
  year INTEGER NOT NULL,
  columnsJson TEXT NOT NULL,
  valuesJson TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS state_results (
  position INTEGER PRIMARY KEY,
  runId TEXT NOT NULL,
  state TEXT NOT NULL,
  candidate TEXT NOT NULL,
  electoralVote INTEGER NOT NULL,
  popularVote INTEGER NOT NULL,
  year INTEGER NOT NULL,
  party TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveRun stores a finished run in one transaction: its tables replace the
// previous run's, its summary and year outcomes are recorded, and it becomes
// the latest run. On error nothing of the run is kept.
func (d *DB) SaveRun(run internal.RunSummary, outcomes []internal.YearOutcome, national []internal.NationalRecord, state []internal.StateRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceResults(tx, run.ID, national, state); err != nil {
		return fmt.Errorf("results: %w", err)
	}
	if err := insertRun(tx, run, outcomes); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := setMetadata(tx, latestRunKey, run.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRun(tx *sql.Tx, run internal.RunSummary, outcomes []internal.YearOutcome) error {
	if _, err := tx.Exec(`
INSERT INTO runs (id, startedAt, finishedAt, strategy, nationalRows, stateRows, skippedYears, unmatchedRows)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, run.ID, run.StartedAt, run.FinishedAt, run.Strategy, run.NationalRows, run.StateRows, run.SkippedYears, run.UnmatchedRows); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO year_outcomes (runId, year, tableKind, status, records, reason) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.Exec(run.ID, o.Year, string(o.Table), string(o.Status), o.Records, o.Reason); err != nil {
			return err
		}
	}
	return nil
}

func replaceResults(tx *sql.Tx, runID string, national []internal.NationalRecord, state []internal.StateRecord) error {
	if _, err := tx.Exec(`DELETE FROM national_results`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM state_results`); err != nil {
		return err
	}

	nstmt, err := tx.Prepare(`INSERT INTO national_results (position, runId, year, columnsJson, valuesJson) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer nstmt.Close()
	for i, r := range national {
		columnsJSON, err := json.Marshal(r.Columns)
		if err != nil {
			return err
		}
		valuesJSON, err := json.Marshal(r.Values)
		if err != nil {
			return err
		}
		if _, err := nstmt.Exec(i, runID, r.Year, string(columnsJSON), string(valuesJSON)); err != nil {
			return err
		}
	}

	sstmt, err := tx.Prepare(`
INSERT INTO state_results (position, runId, state, candidate, electoralVote, popularVote, year, party)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer sstmt.Close()
	for i, r := range state {
		if _, err := sstmt.Exec(i, runID, r.State, r.PresidentialCandidate, r.ElectoralVote, r.PopularVote, r.Year, r.PoliticalParty); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) LoadNational() ([]internal.NationalRecord, error) {
	rows, err := d.conn.Query(`SELECT year, columnsJson, valuesJson FROM national_results ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.NationalRecord
	for rows.Next() {
		var r internal.NationalRecord
		var columnsJSON, valuesJSON string
		if err := rows.Scan(&r.Year, &columnsJSON, &valuesJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(columnsJSON), &r.Columns); err != nil {
			return nil, fmt.Errorf("decode national columns: %w", err)
		}
		if err := json.Unmarshal([]byte(valuesJSON), &r.Values); err != nil {
			return nil, fmt.Errorf("decode national values: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) LoadState() ([]internal.StateRecord, error) {
	rows, err := d.conn.Query(`
SELECT state, candidate, electoralVote, popularVote, year, party
FROM state_results ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.StateRecord
	for rows.Next() {
		var r internal.StateRecord
		if err := rows.Scan(&r.State, &r.PresidentialCandidate, &r.ElectoralVote, &r.PopularVote, &r.Year, &r.PoliticalParty); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) GetRun(id string) (*internal.RunSummary, error) {
	var run internal.RunSummary
	err := d.conn.QueryRow(`
SELECT id, startedAt, finishedAt, strategy, nationalRows, stateRows, skippedYears, unmatchedRows
FROM runs WHERE id = ?
`, id).Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Strategy, &run.NationalRows, &run.StateRows, &run.SkippedYears, &run.UnmatchedRows)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// LatestRun returns the run whose tables are currently stored, or nil.
func (d *DB) LatestRun() (*internal.RunSummary, error) {
	id, err := d.GetMetadata(latestRunKey)
	if err != nil || id == nil {
		return nil, err
	}
	return d.GetRun(*id)
}

func (d *DB) ListRuns(limit int) ([]internal.RunSummary, error) {
	rows, err := d.conn.Query(`
SELECT id, startedAt, finishedAt, strategy, nationalRows, stateRows, skippedYears, unmatchedRows
FROM runs ORDER BY startedAt DESC, rowid DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunSummary
	for rows.Next() {
		var run internal.RunSummary
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Strategy, &run.NationalRows, &run.StateRows, &run.SkippedYears, &run.UnmatchedRows); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) ListYearOutcomes(runID string) ([]internal.YearOutcome, error) {
	rows, err := d.conn.Query(`
SELECT year, tableKind, status, records, COALESCE(reason, '')
FROM year_outcomes WHERE runId = ? ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.YearOutcome
	for rows.Next() {
		var o internal.YearOutcome
		var table, status string
		if err := rows.Scan(&o.Year, &table, &status, &o.Records, &o.Reason); err != nil {
			return nil, err
		}
		o.Table = internal.TableKind(table)
		o.Status = internal.YearStatus(status)
		out = append(out, o)
	}
	return out, rows.Err()
}

func setMetadata(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
