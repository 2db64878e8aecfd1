package internal

type TableKind string

const (
	TableNational TableKind = "national"
	TableState    TableKind = "state"
)

// RawTable is one extracted HTML table: a flat header and body rows of
// normalized, non-empty cell text.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Canonical national column names.
const (
	ColPresidentialCandidate     = "PresidentialCandidate"
	ColVicePresidentialCandidate = "VicePresidentialCandidate"
	ColPoliticalParty            = "PoliticalParty"
	ColElectoralVote             = "ElectoralVote"
	ColPopularVote               = "PopularVote"
	ColPercentage                = "Percentage"
	ColState                     = "State"
	ColYear                      = "Year"
)

// NationalRecord is one candidate row of a national table. Columns is the
// header-driven column order for the year, Year excluded.
type NationalRecord struct {
	Year    int
	Columns []string
	Values  map[string]string
}

func (r NationalRecord) Get(column string) string {
	return r.Values[column]
}

func (r NationalRecord) Candidate() string {
	return r.Values[ColPresidentialCandidate]
}

func (r NationalRecord) Party() string {
	return r.Values[ColPoliticalParty]
}

type StateRecord struct {
	State                 string
	PresidentialCandidate string
	ElectoralVote         int
	PopularVote           int
	Year                  int
	PoliticalParty        string
}

type YearStatus string

const (
	YearOK      YearStatus = "ok"
	YearSkipped YearStatus = "skipped"
)

type YearOutcome struct {
	Year    int
	Table   TableKind
	Status  YearStatus
	Records int
	Reason  string
}

type RunSummary struct {
	ID            string
	StartedAt     string
	FinishedAt    string
	Strategy      string
	NationalRows  int
	StateRows     int
	SkippedYears  int
	UnmatchedRows int
}

// UnmatchedSuggestion pairs an unmatched state label with its closest
// national candidate name for the same year.
type UnmatchedSuggestion struct {
	Year       int
	Label      string
	Suggestion string
	Similarity float64
	Rows       int
}
