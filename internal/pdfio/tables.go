package pdfio

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// cellGap is the horizontal whitespace (in PDF user-space units)
// separating two fragments before they count as distinct cells.
const cellGap = 10.0

type fragment struct {
	x, w float64
	s    string
}

// textFromRows joins row-grouped fragments into layout-preserving
// text, one line per visual row.
func textFromRows(rows pdf.Rows) string {
	var b strings.Builder
	for _, row := range rows {
		cells := clusterRow(rowFragments(row), cellGap)
		line := strings.TrimSpace(strings.Join(cells, " "))
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

// tablesFromRows reconstructs a cell grid from row-grouped fragments:
// fragments on one visual row become cells split on horizontal gaps.
// A page yields at most one synthetic table; fewer than two rows with
// multiple cells is not worth treating as tabular.
func tablesFromRows(rows pdf.Rows) [][][]string {
	var grid [][]string
	multiCell := 0
	for _, row := range rows {
		cells := clusterRow(rowFragments(row), cellGap)
		if len(cells) == 0 {
			continue
		}
		if len(cells) > 1 {
			multiCell++
		}
		grid = append(grid, cells)
	}
	if len(grid) < 2 || multiCell < 2 {
		return nil
	}
	return [][][]string{grid}
}

func rowFragments(row *pdf.Row) []fragment {
	frags := make([]fragment, 0, len(row.Content))
	for _, t := range row.Content {
		if t.S == "" {
			continue
		}
		frags = append(frags, fragment{x: t.X, w: t.W, s: t.S})
	}
	return frags
}

// clusterRow splits x-sorted fragments into cells wherever the gap to
// the previous fragment's right edge exceeds gap.
func clusterRow(frags []fragment, gap float64) []string {
	if len(frags) == 0 {
		return nil
	}
	sortFragments(frags)

	var cells []string
	var cur strings.Builder
	prevEnd := frags[0].x
	for i, f := range frags {
		if i > 0 && f.x-prevEnd > gap {
			if s := strings.TrimSpace(cur.String()); s != "" {
				cells = append(cells, s)
			}
			cur.Reset()
		}
		cur.WriteString(f.s)
		if end := f.x + f.w; end > prevEnd {
			prevEnd = end
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		cells = append(cells, s)
	}
	return cells
}

func sortFragments(frags []fragment) {
	// insertion sort: rows are short and usually already ordered
	for i := 1; i < len(frags); i++ {
		for j := i; j > 0 && frags[j].x < frags[j-1].x; j-- {
			frags[j], frags[j-1] = frags[j-1], frags[j]
		}
	}
}
