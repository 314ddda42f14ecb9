// Package table wraps the bubbles table widget for row/column grid data,
// adding mask-based filtering, column sorting, and width calculation. The
// original rows are retained so filters and sorts are always reversible.
package table

import (
	"image/color"
	"sort"
	"strconv"
	"strings"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Re-export so callers can construct columns/rows without importing bubbles
// directly.
type Column = bubtable.Column
type Row = bubtable.Row

const (
	minColWidth = 4
	maxColWidth = 40
)

// Model displays one dataset grid. Filtering is a boolean mask over the
// original rows; sorting reorders the visible rows only.
type Model struct {
	table   bubtable.Model
	styles  bubtable.Styles
	columns []string
	rows    [][]string // original, never mutated

	mask     []bool // nil means all rows visible
	visible  [][]string
	sortCol  int // -1 when unsorted
	sortDesc bool

	width   int
	height  int
	noColor bool

	headerFG   color.Color
	headerBG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// New creates a table model for the given grid.
func New(columns []string, rows [][]string) *Model {
	t := bubtable.New(
		bubtable.WithFocused(true),
		bubtable.WithHeight(5),
	)

	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true).
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	s.Selected = s.Selected.
		PaddingLeft(0).
		PaddingRight(1)
	s.Cell = lipgloss.NewStyle().
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	t.SetStyles(s)

	m := &Model{
		table:   t,
		styles:  s,
		width:   80,
		height:  10,
		sortCol: -1,
	}
	m.SetData(columns, rows)
	return m
}

// SetData replaces the grid, clearing any mask and sort.
func (m *Model) SetData(columns []string, rows [][]string) {
	m.columns = columns
	m.rows = rows
	m.mask = nil
	m.sortCol = -1
	m.sortDesc = false
	m.rebuild()
	m.table.SetCursor(0)
}

// SetMask applies a row-selection mask over the original rows. A nil mask
// shows everything.
func (m *Model) SetMask(mask []bool) {
	m.mask = mask
	m.rebuild()
	if m.table.Cursor() >= len(m.visible) {
		m.table.SetCursor(0)
	}
}

// ClearMask restores all rows.
func (m *Model) ClearMask() { m.SetMask(nil) }

// SortBy sorts visible rows by the given column. Sorting the same column
// again toggles direction; a negative column clears the sort.
func (m *Model) SortBy(col int) {
	if col < 0 || col >= len(m.columns) {
		m.sortCol = -1
		m.rebuild()
		return
	}
	if m.sortCol == col {
		m.sortDesc = !m.sortDesc
	} else {
		m.sortCol = col
		m.sortDesc = false
	}
	m.rebuild()
}

// SortState reports the current sort column (-1 when unsorted) and direction.
func (m *Model) SortState() (col int, desc bool) { return m.sortCol, m.sortDesc }

// Columns returns the header names.
func (m *Model) Columns() []string { return m.columns }

// VisibleRows returns the rows currently shown, post-mask and post-sort.
func (m *Model) VisibleRows() [][]string { return m.visible }

// AllRows returns the original unfiltered rows.
func (m *Model) AllRows() [][]string { return m.rows }

// SelectedRow returns the row under the cursor, or nil when empty.
func (m *Model) SelectedRow() []string {
	cur := m.table.Cursor()
	if cur < 0 || cur >= len(m.visible) {
		return nil
	}
	return m.visible[cur]
}

// rebuild recomputes the visible rows from mask and sort state and pushes
// them into the underlying widget.
func (m *Model) rebuild() {
	m.visible = m.visible[:0]
	for i, row := range m.rows {
		if m.mask != nil && (i >= len(m.mask) || !m.mask[i]) {
			continue
		}
		m.visible = append(m.visible, row)
	}

	if m.sortCol >= 0 {
		sorted := make([][]string, len(m.visible))
		copy(sorted, m.visible)
		col := m.sortCol
		sort.SliceStable(sorted, func(i, j int) bool {
			less := compareCells(cellAt(sorted[i], col), cellAt(sorted[j], col))
			if m.sortDesc {
				return !less
			}
			return less
		})
		m.visible = sorted
	}

	cols := m.buildColumns()
	tableRows := make([]Row, len(m.visible))
	for i, row := range m.visible {
		tableRows[i] = padRow(row, len(m.columns))
	}
	// The widget re-renders after each setter and indexes columns by cell
	// position, so rows must never be wider than the column set: when the
	// column count shrinks, push the narrower rows first.
	if len(cols) < len(m.table.Columns()) {
		m.table.SetRows(tableRows)
		m.table.SetColumns(cols)
	} else {
		m.table.SetColumns(cols)
		m.table.SetRows(tableRows)
	}
}

// compareCells orders numerically when both cells parse as numbers, falling
// back to case-insensitive text order.
func compareCells(a, b string) bool {
	af, aerr := strconv.ParseFloat(strings.TrimSpace(a), 64)
	bf, berr := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if aerr == nil && berr == nil {
		return af < bf
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func padRow(row []string, n int) Row {
	if len(row) >= n {
		return Row(row[:n])
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

// buildColumns sizes each column to its widest cell, clamped, then scales
// down proportionally if the total overflows the widget width.
func (m *Model) buildColumns() []Column {
	widths := make([]int, len(m.columns))
	for i, name := range m.columns {
		widths[i] = runewidth.StringWidth(name)
	}
	for _, row := range m.visible {
		for i := range m.columns {
			if w := runewidth.StringWidth(cellAt(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0
	for i := range widths {
		if widths[i] < minColWidth {
			widths[i] = minColWidth
		}
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
		total += widths[i] + 1
	}
	if m.width > 0 && total > m.width {
		scale := float64(m.width) / float64(total)
		for i := range widths {
			widths[i] = int(float64(widths[i]) * scale)
			if widths[i] < minColWidth {
				widths[i] = minColWidth
			}
		}
	}

	cols := make([]Column, len(m.columns))
	for i, name := range m.columns {
		title := name
		if i == m.sortCol {
			if m.sortDesc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cols[i] = Column{Title: title, Width: widths[i]}
	}
	return cols
}

// Cursor returns the cursor position within the visible rows.
func (m *Model) Cursor() int { return m.table.Cursor() }

// SetCursor moves the cursor.
func (m *Model) SetCursor(pos int) { m.table.SetCursor(pos) }

// MoveDown moves the cursor down n rows.
func (m *Model) MoveDown(n int) { m.table.MoveDown(n) }

// MoveUp moves the cursor up n rows.
func (m *Model) MoveUp(n int) { m.table.MoveUp(n) }

// GotoTop moves the cursor to the first row.
func (m *Model) GotoTop() { m.table.GotoTop() }

// GotoBottom moves the cursor to the last row.
func (m *Model) GotoBottom() { m.table.GotoBottom() }

// SetSize sets the widget dimensions and recomputes column widths.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(width)
	m.table.SetHeight(height)
	m.rebuild()
}

// Focus gives the widget keyboard focus.
func (m *Model) Focus() { m.table.Focus() }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.table.Blur() }

// SetNoColor strips theme colors, using reverse video for the selection.
func (m *Model) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors applies theme colors to the header and selection.
func (m *Model) SetColors(headerFG, headerBG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.headerBG = headerBG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model) applyColorScheme() {
	s := m.styles
	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.headerBG != nil {
			s.Header = s.Header.Background(m.headerBG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}
	m.table.SetStyles(s)
	m.styles = s
}

// Update forwards messages to the underlying widget.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m *Model) View() string {
	return m.table.View()
}
