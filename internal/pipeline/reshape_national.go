package pipeline

import (
	"fmt"
	"slices"
	"strconv"

	"electarchive/internal"
	"electarchive/internal/util"
)

// ReshapeNational turns a national table into one record per row. The two
// trailing structural columns are dropped by position from both the header
// and every row, so each record carries len(header)-2 columns plus Year.
func ReshapeNational(table internal.RawTable, year int) ([]internal.NationalRecord, error) {
	header, err := dropTrailingColumns(table.Header)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	columns := NormalizeNationalHeader(header)
	if !slices.Contains(columns, internal.ColPresidentialCandidate) {
		return nil, fmt.Errorf("%w: no candidate column in header %q", ErrShapeMismatch, table.Header)
	}

	out := make([]internal.NationalRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		if len(row) != len(table.Header) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrShapeMismatch, i+1, len(row), len(table.Header))
		}
		cells, err := dropTrailingColumns(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		values := make(map[string]string, len(columns))
		for c, name := range columns {
			values[name] = cells[c]
		}
		if pv, ok := values[internal.ColPopularVote]; ok && pv != "" {
			n, err := util.ParseCount(pv)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d popular vote: %v", ErrShapeMismatch, i+1, err)
			}
			values[internal.ColPopularVote] = strconv.Itoa(n)
		}

		out = append(out, internal.NationalRecord{Year: year, Columns: columns, Values: values})
	}
	return out, nil
}

// dropTrailingColumns removes the last cell, then the second-to-last of what
// remains.
func dropTrailingColumns(cells []string) ([]string, error) {
	if len(cells) < 3 {
		return nil, fmt.Errorf("%w: %d cells, need at least 3", ErrShapeMismatch, len(cells))
	}
	out := slices.Clone(cells[:len(cells)-1])
	return slices.Delete(out, len(out)-2, len(out)-1), nil
}
