package pipeline

import "electarchive/internal"

// Accumulator collects per-year records in year order. Append methods return
// the grown value; callers reassign it each iteration.
type Accumulator struct {
	National []internal.NationalRecord
	State    []internal.StateRecord
}

func (a Accumulator) AppendNational(records []internal.NationalRecord) Accumulator {
	a.National = append(a.National, records...)
	return a
}

func (a Accumulator) AppendState(records []internal.StateRecord) Accumulator {
	a.State = append(a.State, records...)
	return a
}
