package pipeline

import (
	"slices"

	"electarchive/internal"
)

// OutputTable is a header plus rows of cell values ready for a writer.
type OutputTable struct {
	Header []string
	Rows   [][]any
}

var stateColumns = []string{
	internal.ColState,
	internal.ColPresidentialCandidate,
	internal.ColElectoralVote,
	internal.ColPopularVote,
	internal.ColYear,
	internal.ColPoliticalParty,
}

// NationalTable lays national records out under the union of their columns
// in first-seen order, with Year last. Columns a year lacks are left empty.
func NationalTable(records []internal.NationalRecord) OutputTable {
	columns := []string{}
	for _, r := range records {
		for _, c := range r.Columns {
			if !slices.Contains(columns, c) {
				columns = append(columns, c)
			}
		}
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		row := make([]any, 0, len(columns)+1)
		for _, c := range columns {
			row = append(row, r.Get(c))
		}
		rows = append(rows, append(row, r.Year))
	}
	return OutputTable{Header: append(columns, internal.ColYear), Rows: rows}
}

func StateTable(records []internal.StateRecord) OutputTable {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.State, r.PresidentialCandidate, r.ElectoralVote, r.PopularVote, r.Year, r.PoliticalParty})
	}
	return OutputTable{Header: slices.Clone(stateColumns), Rows: rows}
}
