package pipeline

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"electarchive/internal"
)

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func RenderSuggestions(w io.Writer, suggestions []internal.UnmatchedSuggestion) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"Year", "Label", "Rows", "Closest national candidate", "Similarity"})
	for _, s := range suggestions {
		score := ""
		if s.Suggestion != "" {
			score = fmt.Sprintf("%.2f", s.Similarity)
		}
		t.AppendRow(table.Row{s.Year, s.Label, s.Rows, s.Suggestion, score})
	}
	t.Render()
}

func RenderRuns(w io.Writer, runs []internal.RunSummary) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"Run", "Started", "Strategy", "National", "State", "Skipped", "Unmatched"})
	for _, r := range runs {
		t.AppendRow(table.Row{r.ID, r.StartedAt, r.Strategy, r.NationalRows, r.StateRows, r.SkippedYears, r.UnmatchedRows})
	}
	t.Render()
}

func RenderOutcomes(w io.Writer, outcomes []internal.YearOutcome) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"Year", "Table", "Status", "Records", "Reason"})
	for _, o := range outcomes {
		t.AppendRow(table.Row{o.Year, o.Table, o.Status, o.Records, o.Reason})
	}
	t.Render()
}
