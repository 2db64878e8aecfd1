package pipeline

import (
	"fmt"
	"os"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"electarchive/internal"
	"electarchive/internal/util"
)

var footerLabels = []string{"total", "totals"}

type headerCell struct {
	text string
	span int
}

// ExtractFile parses one HTML file and extracts the table identified by
// selector. A missing file is reported as ErrMissingFragment.
func ExtractFile(path, selector string, spliceMarkers []string) (internal.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return internal.RawTable{}, fmt.Errorf("%w: %s not found", ErrMissingFragment, path)
		}
		return internal.RawTable{}, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return internal.RawTable{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return ExtractTable(doc, selector, spliceMarkers)
}

// ExtractTable locates the table, flattens its header rows and returns the
// header and body with spacer columns removed. A spacer column is one whose
// flattened header text is empty; it is dropped from the header and from
// every row at the same position, so blank data cells keep their slot.
func ExtractTable(doc *goquery.Document, selector string, spliceMarkers []string) (internal.RawTable, error) {
	table := resolveTable(doc.Selection, selector)
	if table.Length() == 0 {
		return internal.RawTable{}, fmt.Errorf("%w: no table matching %q", ErrMissingFragment, selector)
	}

	headRows, bodyRows := splitRows(table)
	if len(headRows) == 0 || len(bodyRows) == 0 {
		headRows, bodyRows = separatedRegions(doc.Selection, selector, headRows, bodyRows)
	}
	if len(headRows) == 0 {
		return internal.RawTable{}, fmt.Errorf("%w: header rows", ErrMissingFragment)
	}
	if len(bodyRows) == 0 {
		return internal.RawTable{}, fmt.Errorf("%w: body rows", ErrMissingFragment)
	}

	flat, err := spliceHeaderRows(headRows, spliceMarkers)
	if err != nil {
		return internal.RawTable{}, err
	}
	spacers := spacerColumns(flat)
	header := dropColumns(flat, spacers)
	if len(header) == 0 {
		return internal.RawTable{}, fmt.Errorf("%w: header is empty", ErrMissingFragment)
	}

	rows := make([][]string, 0, len(bodyRows))
	for _, tr := range bodyRows {
		cells := rowText(tr)
		if blankRow(cells) {
			continue
		}
		cells = dropColumns(cells, spacers)
		if len(cells) == 0 || util.EqualsAny(cells[0], footerLabels) {
			continue
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return internal.RawTable{}, fmt.Errorf("%w: body has no data rows", ErrMissingFragment)
	}

	return internal.RawTable{Header: header, Rows: rows}, nil
}

// resolveTable returns the first match of selector, descending into nested
// matches so wrapper tables are skipped.
func resolveTable(root *goquery.Selection, selector string) *goquery.Selection {
	table := root.Find(selector).First()
	for table.Length() > 0 {
		inner := table.Find(selector).First()
		if inner.Length() == 0 {
			break
		}
		table = inner
	}
	return table
}

// separatedRegions fills in a missing header or body from the first thead or
// tbody elsewhere in the document. Matches of selector are searched before
// the rest of the document, which covers a header kept in a wrapper table
// and header and body split across sibling tables.
func separatedRegions(root *goquery.Selection, selector string, head [][]headerCell, body []*goquery.Selection) ([][]headerCell, []*goquery.Selection) {
	scopes := []*goquery.Selection{root.Find(selector), root}

	if len(head) == 0 {
		for _, scope := range scopes {
			if head = theadRows(scope.Find("thead").First()); len(head) > 0 {
				break
			}
		}
	}
	if len(body) == 0 {
		for _, scope := range scopes {
			if body = firstDataBody(scope); len(body) > 0 {
				break
			}
		}
	}
	return head, body
}

func theadRows(thead *goquery.Selection) [][]headerCell {
	var head [][]headerCell
	thead.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if cells := rowHeaderCells(tr); len(cells) > 0 {
			head = append(head, cells)
		}
	})
	return head
}

// firstDataBody returns the rows of the first tbody holding a td cell. The
// parser wraps header-only tables in an implicit tbody; those are skipped.
func firstDataBody(scope *goquery.Selection) []*goquery.Selection {
	var body []*goquery.Selection
	scope.Find("tbody").EachWithBreak(func(_ int, tbody *goquery.Selection) bool {
		if tbody.Find("td").Length() == 0 {
			return true
		}
		tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			body = append(body, tr)
		})
		return false
	})
	return body
}

// splitRows separates header rows from body rows. With a thead the split is
// explicit; otherwise the leading rows made only of th cells are the header.
func splitRows(table *goquery.Selection) (head [][]headerCell, body []*goquery.Selection) {
	if thead := table.Find("thead").First(); thead.Length() > 0 {
		head = theadRows(thead)
		table.Find("tbody").First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
			body = append(body, tr)
		})
		return head, body
	}

	inHeader := true
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th,td")
		if cells.Length() == 0 {
			return
		}
		if inHeader && cells.Length() == cells.Filter("th").Length() {
			head = append(head, rowHeaderCells(tr))
			return
		}
		inHeader = false
		body = append(body, tr)
	})
	return head, body
}

func rowHeaderCells(tr *goquery.Selection) []headerCell {
	out := []headerCell{}
	tr.ChildrenFiltered("th,td").Each(func(_ int, cell *goquery.Selection) {
		span, err := strconv.Atoi(cell.AttrOr("colspan", "1"))
		if err != nil || span < 1 {
			span = 1
		}
		out = append(out, headerCell{text: util.NormalizeCell(cell.Text()), span: span})
	})
	return out
}

func rowText(tr *goquery.Selection) []string {
	out := []string{}
	tr.ChildrenFiltered("th,td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, util.NormalizeCell(cell.Text()))
	})
	return out
}

// spliceHeaderRows folds multi-row headers into one flat row. Grouping cells
// with a colspan are replaced by the sub-header cells they span. Without any
// colspan the sub-header replaces the first cell matching a splice marker.
func spliceHeaderRows(rows [][]headerCell, markers []string) ([]string, error) {
	merged := rows[0]
	for _, sub := range rows[1:] {
		var err error
		merged, err = spliceRow(merged, sub, markers)
		if err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(merged))
	for _, c := range merged {
		out = append(out, c.text)
	}
	return out, nil
}

func spliceRow(top, sub []headerCell, markers []string) ([]headerCell, error) {
	grouped := false
	for _, c := range top {
		if c.span > 1 {
			grouped = true
			break
		}
	}

	out := make([]headerCell, 0, len(top)+len(sub))
	if grouped {
		next := 0
		for _, c := range top {
			if c.span <= 1 {
				out = append(out, headerCell{text: c.text, span: 1})
				continue
			}
			if next+c.span > len(sub) {
				return nil, fmt.Errorf("%w: header group %q spans %d cells, %d sub-header cells left", ErrShapeMismatch, c.text, c.span, len(sub)-next)
			}
			for _, s := range sub[next : next+c.span] {
				out = append(out, headerCell{text: s.text, span: 1})
			}
			next += c.span
		}
		if next != len(sub) {
			return nil, fmt.Errorf("%w: %d sub-header cells not covered by header groups", ErrShapeMismatch, len(sub)-next)
		}
		return out, nil
	}

	for i, c := range top {
		if !util.EqualsAny(c.text, markers) {
			continue
		}
		out = append(out, top[:i]...)
		for _, s := range sub {
			out = append(out, headerCell{text: s.text, span: 1})
		}
		out = append(out, top[i+1:]...)
		return out, nil
	}
	return nil, fmt.Errorf("%w: second header row has no splice position", ErrShapeMismatch)
}

func spacerColumns(header []string) map[int]bool {
	spacers := map[int]bool{}
	for i, h := range header {
		if h == "" {
			spacers[i] = true
		}
	}
	return spacers
}

func dropColumns(cells []string, positions map[int]bool) []string {
	out := make([]string, 0, len(cells))
	for i, c := range cells {
		if !positions[i] {
			out = append(out, c)
		}
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
