package formatter

import (
	"strconv"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

// GridOptions configures plain-text grid rendering.
type GridOptions struct {
	// MaxColWidth caps any single column's width (0 = uncapped).
	MaxColWidth int
	// MaxWidth caps the total rendered width; trailing columns that do not
	// fit are dropped and a "…" marker column is appended (0 = uncapped).
	MaxWidth int
	// ShowRowNumbers prepends a 1-based row number column.
	ShowRowNumbers bool
}

// DefaultGridOptions returns the defaults used by snapshot output.
func DefaultGridOptions() GridOptions {
	return GridOptions{MaxColWidth: 40}
}

// FormatGrid renders named columns and string rows as a plain text table with
// a header separator. Column widths are measured with runewidth so wide
// characters stay aligned. Missing cells render empty; extra cells are
// dropped.
func FormatGrid(columns []string, rows [][]string, opts GridOptions) string {
	if len(columns) == 0 {
		return ""
	}

	headers := columns
	if opts.ShowRowNumbers {
		headers = append([]string{"#"}, columns...)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = cellWidth(h, opts.MaxColWidth)
	}
	body := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, 0, len(headers))
		if opts.ShowRowNumbers {
			cells = append(cells, strconv.Itoa(r+1))
		}
		for c := range columns {
			cell := ""
			if c < len(row) {
				cell = Stringify(row[c])
			}
			cells = append(cells, cell)
		}
		for i, cell := range cells {
			if w := cellWidth(cell, opts.MaxColWidth); w > widths[i] {
				widths[i] = w
			}
		}
		body[r] = cells
	}

	visible := len(headers)
	if opts.MaxWidth > 0 {
		total := 0
		for i, w := range widths {
			if i > 0 {
				total += 2 // column separator
			}
			total += w
			if total > opts.MaxWidth {
				visible = i
				break
			}
		}
		if visible == 0 {
			visible = 1
		}
	}

	var b strings.Builder
	writeGridRow(&b, headers, widths, visible, opts.MaxColWidth)
	sep := make([]string, visible)
	for i := 0; i < visible; i++ {
		sep[i] = strings.Repeat("─", widths[i])
	}
	writeGridRow(&b, sep, widths, visible, 0)
	for _, cells := range body {
		writeGridRow(&b, cells, widths, visible, opts.MaxColWidth)
	}
	return b.String()
}

func writeGridRow(b *strings.Builder, cells []string, widths []int, visible int, maxColWidth int) {
	for i := 0; i < visible && i < len(cells); i++ {
		if i > 0 {
			b.WriteString("  ")
		}
		cell := cells[i]
		if maxColWidth > 0 && runewidth.StringWidth(cell) > maxColWidth {
			cell = runewidth.Truncate(cell, maxColWidth, "…")
		}
		if i == visible-1 {
			b.WriteString(cell)
		} else {
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
	}
	if visible < len(cells) {
		b.WriteString("  …")
	}
	b.WriteString("\n")
}

func cellWidth(s string, maxColWidth int) int {
	w := runewidth.StringWidth(s)
	if maxColWidth > 0 && w > maxColWidth {
		return maxColWidth
	}
	return w
}
