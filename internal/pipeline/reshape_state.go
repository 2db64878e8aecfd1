package pipeline

import (
	"fmt"

	"electarchive/internal"
	"electarchive/internal/util"
)

// StateStrategy reshapes a candidate-major state table into one record per
// (state, candidate).
type StateStrategy interface {
	Name() string
	Reshape(table internal.RawTable, year int) ([]internal.StateRecord, error)
}

func NewStateStrategy(name string, totalMarkers []string) (StateStrategy, error) {
	switch name {
	case "header", "":
		return HeaderDrivenStrategy{TotalMarkers: totalMarkers}, nil
	case "fixed":
		return FixedOffsetStrategy{}, nil
	default:
		return nil, fmt.Errorf("unsupported state strategy: %s", name)
	}
}

// StateLayout is the column layout of one year's state table, resolved once
// from the header.
type StateLayout struct {
	// MarkerIndex is the header position of the total-vote boundary.
	MarkerIndex int
	// ElectoralColumns counts the electoral vote columns after the state column.
	ElectoralColumns int
	// Candidates are the popular vote column labels after the marker.
	Candidates []string
}

// Width is the number of cells a body row must have.
func (l StateLayout) Width() int {
	return l.MarkerIndex + 1 + len(l.Candidates)
}

// ResolveStateLayout finds the total-vote marker in the header and derives
// the electoral/popular split from its position.
func ResolveStateLayout(header []string, totalMarkers []string) (StateLayout, error) {
	marker := -1
	for i := 1; i < len(header); i++ {
		if util.EqualsAny(header[i], totalMarkers) {
			marker = i
			break
		}
	}
	if marker < 0 {
		return StateLayout{}, fmt.Errorf("%w: no total vote marker %q in header", ErrShapeMismatch, totalMarkers)
	}
	if marker == len(header)-1 {
		return StateLayout{}, fmt.Errorf("%w: no candidate columns after %q", ErrShapeMismatch, header[marker])
	}
	return StateLayout{
		MarkerIndex:      marker,
		ElectoralColumns: marker - 1,
		Candidates:       header[marker+1:],
	}, nil
}

type HeaderDrivenStrategy struct {
	TotalMarkers []string
}

func (HeaderDrivenStrategy) Name() string { return "header" }

func (s HeaderDrivenStrategy) Reshape(table internal.RawTable, year int) ([]internal.StateRecord, error) {
	layout, err := ResolveStateLayout(table.Header, s.TotalMarkers)
	if err != nil {
		return nil, err
	}

	out := make([]internal.StateRecord, 0, len(table.Rows)*len(layout.Candidates))
	for r, row := range table.Rows {
		if len(row) != layout.Width() {
			return nil, fmt.Errorf("%w: row %d (%s) has %d cells, layout needs %d", ErrShapeMismatch, r+1, row[0], len(row), layout.Width())
		}
		for i, candidate := range layout.Candidates {
			ev := 0
			if i < layout.ElectoralColumns {
				if ev, err = parseCell(row, 1+i); err != nil {
					return nil, err
				}
			}
			pv, err := parseCell(row, layout.MarkerIndex+1+i)
			if err != nil {
				return nil, err
			}
			out = append(out, internal.StateRecord{
				State:                 row[0],
				PresidentialCandidate: candidate,
				ElectoralVote:         ev,
				PopularVote:           pv,
				Year:                  year,
			})
		}
	}
	return out, nil
}

// FixedOffsetStrategy is the legacy layout: (cells-3)/2 candidates with
// electoral votes, plus one trailing candidate read from the last cell with
// zero electoral votes. It assumes exactly one state column and one total
// column.
type FixedOffsetStrategy struct{}

func (FixedOffsetStrategy) Name() string { return "fixed" }

func (FixedOffsetStrategy) Reshape(table internal.RawTable, year int) ([]internal.StateRecord, error) {
	header := table.Header
	if len(header) < 3 {
		return nil, fmt.Errorf("%w: header has %d cells, need at least 3", ErrShapeMismatch, len(header))
	}
	n := (len(header) - 3) / 2
	candidates := header[n+2:]

	out := make([]internal.StateRecord, 0, len(table.Rows)*(n+1))
	for r, row := range table.Rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d (%s) has %d cells, header has %d", ErrShapeMismatch, r+1, row[0], len(row), len(header))
		}
		for i := 0; i < n; i++ {
			ev, err := parseCell(row, 1+i)
			if err != nil {
				return nil, err
			}
			pv, err := parseCell(row, 2+n+i)
			if err != nil {
				return nil, err
			}
			out = append(out, internal.StateRecord{State: row[0], PresidentialCandidate: candidates[i], ElectoralVote: ev, PopularVote: pv, Year: year})
		}
		pv, err := parseCell(row, len(row)-1)
		if err != nil {
			return nil, err
		}
		out = append(out, internal.StateRecord{State: row[0], PresidentialCandidate: candidates[n], ElectoralVote: 0, PopularVote: pv, Year: year})
	}
	return out, nil
}

// parseCell reads a count cell. A blank cell is a count nobody reported and
// reads as zero.
func parseCell(row []string, idx int) (int, error) {
	if row[idx] == "" {
		return 0, nil
	}
	n, err := util.ParseCount(row[idx])
	if err != nil {
		return 0, fmt.Errorf("%w: %s column %d: %v", ErrShapeMismatch, row[0], idx+1, err)
	}
	return n, nil
}
