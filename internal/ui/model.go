// Package ui implements the interactive terminal viewer: a spreadsheet-like
// table for tabular datasets and an expandable tree for nested data, with a
// filter bar combining free-form expressions and structured clauses.
package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/tvx/internal/filter"
	"github.com/oakwood-commons/tvx/internal/tree"
	uitable "github.com/oakwood-commons/tvx/internal/ui/table"
	"github.com/oakwood-commons/tvx/pkg/loader"
)

type viewMode int

const (
	modeTable viewMode = iota
	modeTree
)

type inputMode int

const (
	inputNone inputMode = iota
	inputExpr
	inputClause
)

// Options configures a new Model. Explicit configuration object; nothing is
// process-global.
type Options struct {
	Theme     Theme
	KeyMode   KeyMode
	SortKeys  bool
	ShowUnits bool
	// InitialExpr is applied as the filter expression before the first frame.
	InitialExpr string
	Logger      logr.Logger
}

// DefaultOptions returns the defaults used by the CLI when no config is
// present.
func DefaultOptions() Options {
	return Options{
		Theme:    DefaultTheme(),
		KeyMode:  DefaultKeyMode,
		SortKeys: true,
		Logger:   logr.Discard(),
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	snap   *loader.Snapshot
	active int // index into snap.Datasets
	mode   viewMode

	tbl *uitable.Model
	tv  *treeView

	exprInput   textinput.Model
	clauseInput textinput.Model
	input       inputMode

	appliedExpr string
	clauses     []filter.Clause
	eval        *filter.Evaluator

	sortTarget int // column the next sort action applies to

	theme      Theme
	keyMode    KeyMode
	pendingKey string

	helpVisible bool
	errMsg      string
	statusMsg   string

	winW, winH int
	forceSize  bool
	desiredW   int
	desiredH   int

	logger   logr.Logger
	quitting bool
}

// NewModel builds the root model for a snapshot. Tabular snapshots open in
// the table view; structured roots open in the tree view.
func NewModel(snap *loader.Snapshot, opts Options) *Model {
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}

	ei := textinput.New()
	ei.Placeholder = `filter expression (e.g. age > 30 || city == "NYC")`
	ei.CharLimit = 500
	ei.SetWidth(80)
	ei.Prompt = "/ "

	ci := textinput.New()
	ci.Placeholder = `clause: column operator value [AND|OR|NOT]`
	ci.CharLimit = 500
	ci.SetWidth(80)
	ci.Prompt = "+ "

	m := &Model{
		snap:        snap,
		exprInput:   ei,
		clauseInput: ci,
		eval:        filter.NewEvaluator(),
		theme:       opts.Theme,
		keyMode:     opts.KeyMode,
		logger:      opts.Logger,
		winW:        80,
		winH:        24,
	}

	if snap.Tabular() {
		m.mode = modeTable
		ds := snap.Datasets[0]
		m.tbl = uitable.New(ds.Columns, ds.Rows)
		m.applyTableTheme()
	} else {
		m.mode = modeTree
		t := tree.Flatten(snap.Value, tree.Options{
			SortKeys:  opts.SortKeys,
			ShowUnits: opts.ShowUnits,
			Logger:    opts.Logger,
		})
		m.tv = newTreeView(t)
	}

	if opts.InitialExpr != "" && m.mode == modeTable {
		m.exprInput.SetValue(opts.InitialExpr)
		m.applyFilter()
	}
	return m
}

func (m *Model) applyTableTheme() {
	if m.tbl == nil {
		return
	}
	if m.theme.NoColor {
		m.tbl.SetNoColor(true)
		return
	}
	m.tbl.SetColors(m.theme.HeaderFG, m.theme.HeaderBG, m.theme.SelectedFG, m.theme.SelectedBG)
}

// ForceWindowSize pins the layout to a fixed size regardless of terminal
// geometry, for tests and snapshot rendering.
func (m *Model) ForceWindowSize(w, h int) {
	m.forceSize = true
	m.desiredW = w
	m.desiredH = h
	m.winW = w
	m.winH = h
	m.applyLayout()
}

// Dataset returns the active dataset.
func (m *Model) Dataset() loader.Dataset {
	return m.snap.Datasets[m.active]
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		if m.forceSize {
			w, h = m.desiredW, m.desiredH
		}
		if m.winW == w && m.winH == h {
			return m, nil
		}
		m.winW = w
		m.winH = h
		m.applyLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	// Help overlay is modal.
	if m.helpVisible {
		switch keyStr {
		case "?", "f1", "esc", "q":
			m.helpVisible = false
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.input != inputNone {
		return m.handleInputKey(msg)
	}

	switch m.resolveKey(keyStr) {
	case ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case ActionHelp:
		m.helpVisible = true
	case ActionDown:
		m.moveCursor(1)
	case ActionUp:
		m.moveCursor(-1)
	case ActionTop:
		m.gotoTop()
	case ActionBottom:
		m.gotoBottom()
	case ActionFilter:
		if m.mode == modeTable {
			m.input = inputExpr
			m.exprInput.Focus()
			m.errMsg = ""
		}
	case ActionClearFilter:
		m.clearFilter()
	case ActionSort:
		m.sortByTarget()
	case ActionNextColumn:
		m.shiftSortTarget(1)
	case ActionPrevColumn:
		m.shiftSortTarget(-1)
	case ActionNextDataset:
		m.switchDataset(1)
	case ActionPrevDataset:
		m.switchDataset(-1)
	case ActionToggleNode:
		if m.mode == modeTree {
			m.tv.toggle()
		}
	case ActionExpandAll:
		if m.mode == modeTree {
			m.tv.expandAll()
		}
	case ActionCollapseAll:
		if m.mode == modeTree {
			m.tv.collapseAll()
		}
	case ActionClause:
		if m.mode == modeTable {
			m.input = inputClause
			m.clauseInput.Focus()
			m.errMsg = ""
		}
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.input == inputExpr {
			m.applyFilter()
		} else {
			m.commitClause()
		}
		m.leaveInput()
		return m, nil
	case "esc":
		if m.input == inputExpr {
			m.exprInput.SetValue(m.appliedExpr)
		} else {
			m.clauseInput.SetValue("")
		}
		m.leaveInput()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.input == inputExpr {
		m.exprInput, cmd = m.exprInput.Update(msg)
	} else {
		m.clauseInput, cmd = m.clauseInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) leaveInput() {
	m.exprInput.Blur()
	m.clauseInput.Blur()
	m.input = inputNone
}

func (m *Model) moveCursor(delta int) {
	if m.mode == modeTree {
		if delta > 0 {
			m.tv.moveDown(delta)
		} else {
			m.tv.moveUp(-delta)
		}
		return
	}
	if delta > 0 {
		m.tbl.MoveDown(delta)
	} else {
		m.tbl.MoveUp(-delta)
	}
}

func (m *Model) gotoTop() {
	if m.mode == modeTree {
		m.tv.gotoTop()
		return
	}
	m.tbl.GotoTop()
}

func (m *Model) gotoBottom() {
	if m.mode == modeTree {
		m.tv.gotoBottom()
		return
	}
	m.tbl.GotoBottom()
}

// applyFilter recomputes the row mask from the current expression and
// clauses. The original rows stay untouched so clearing is always possible.
func (m *Model) applyFilter() {
	if m.mode != modeTable {
		return
	}
	ds := m.Dataset()
	expr := strings.TrimSpace(m.exprInput.Value())

	mask, err := m.eval.Apply(ds.Columns, ds.Rows, expr, m.clauses)
	if err != nil {
		m.errMsg = err.Error()
		m.logger.V(1).Info("filter rejected", "expr", expr, "error", err.Error())
		return
	}
	m.errMsg = ""
	m.appliedExpr = expr
	m.tbl.SetMask(mask)

	shown := len(m.tbl.VisibleRows())
	m.statusMsg = fmt.Sprintf("%d of %d rows", shown, len(ds.Rows))
}

// commitClause parses the clause input and appends it to the clause list.
func (m *Model) commitClause() {
	text := strings.TrimSpace(m.clauseInput.Value())
	if text == "" {
		return
	}
	clause, err := filter.ParseClause(text)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.clauses = append(m.clauses, clause)
	m.clauseInput.SetValue("")
	m.applyFilter()
}

// clearFilter drops the expression, all clauses, and the mask.
func (m *Model) clearFilter() {
	if m.mode != modeTable {
		return
	}
	m.exprInput.SetValue("")
	m.appliedExpr = ""
	m.clauses = nil
	m.errMsg = ""
	m.tbl.ClearMask()
	m.statusMsg = fmt.Sprintf("%d rows", len(m.Dataset().Rows))
}

func (m *Model) sortByTarget() {
	if m.mode != modeTable {
		return
	}
	m.tbl.SortBy(m.sortTarget)
}

func (m *Model) shiftSortTarget(delta int) {
	if m.mode != modeTable {
		return
	}
	n := len(m.Dataset().Columns)
	if n == 0 {
		return
	}
	m.sortTarget = ((m.sortTarget+delta)%n + n) % n
}

// switchDataset activates the next/previous dataset, clearing filters since
// masks are per-dataset.
func (m *Model) switchDataset(delta int) {
	if m.mode != modeTable || len(m.snap.Datasets) < 2 {
		return
	}
	n := len(m.snap.Datasets)
	m.active = ((m.active+delta)%n + n) % n
	ds := m.snap.Datasets[m.active]
	m.tbl.SetData(ds.Columns, ds.Rows)
	m.sortTarget = 0
	m.appliedExpr = ""
	m.exprInput.SetValue("")
	m.clauses = nil
	m.errMsg = ""
	m.statusMsg = fmt.Sprintf("%d rows", len(ds.Rows))
	m.applyLayout()
}

func (m *Model) applyLayout() {
	// Title, filter line, status, footer.
	contentH := m.winH - 4
	if contentH < 3 {
		contentH = 3
	}
	if m.tbl != nil {
		m.tbl.SetSize(m.winW, contentH)
	}
	m.exprInput.SetWidth(m.winW - 4)
	m.clauseInput.SetWidth(m.winW - 4)
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	if m.quitting {
		v := tea.NewView("")
		v.AltScreen = true
		return v
	}

	var sections []string
	sections = append(sections, m.titleBar())

	if m.helpVisible {
		sections = append(sections, m.helpView())
	} else {
		switch m.mode {
		case modeTable:
			sections = append(sections, m.tbl.View())
		case modeTree:
			sections = append(sections, m.tv.render(m.theme, m.winW, m.winH-4))
		}
		sections = append(sections, m.filterLine())
		sections = append(sections, m.statusLine())
		sections = append(sections, m.footerLine())
	}

	v := tea.NewView(strings.Join(sections, "\n"))
	v.AltScreen = true
	return v
}

func (m *Model) titleBar() string {
	title := m.snap.Source
	if m.mode == modeTable {
		ds := m.Dataset()
		if len(m.snap.Datasets) > 1 {
			title = fmt.Sprintf("%s · %s (%d/%d)", m.snap.Source, ds.Name, m.active+1, len(m.snap.Datasets))
		} else if ds.Name != "" && ds.Name != m.snap.Source {
			title = fmt.Sprintf("%s · %s", m.snap.Source, ds.Name)
		}
	}
	style := lipgloss.NewStyle().Bold(true)
	if !m.theme.NoColor {
		style = style.Foreground(m.theme.HeaderFG).Background(m.theme.HeaderBG)
	}
	return style.Width(m.winW).Render(" " + title)
}

func (m *Model) filterLine() string {
	switch m.input {
	case inputExpr:
		return m.exprInput.View()
	case inputClause:
		return m.clauseInput.View()
	}
	parts := make([]string, 0, 2)
	if m.appliedExpr != "" {
		parts = append(parts, "/ "+m.appliedExpr)
	}
	if len(m.clauses) > 0 {
		parts = append(parts, fmt.Sprintf("%d clause(s)", len(m.clauses)))
	}
	if len(parts) == 0 {
		return ""
	}
	style := lipgloss.NewStyle()
	if !m.theme.NoColor {
		style = style.Foreground(m.theme.InputFG)
	}
	return style.Render(strings.Join(parts, "  "))
}

func (m *Model) statusLine() string {
	if m.errMsg != "" {
		style := lipgloss.NewStyle()
		if !m.theme.NoColor {
			style = style.Foreground(m.theme.StatusError)
		}
		return style.Render("error: " + m.errMsg)
	}
	msg := m.statusMsg
	if m.mode == modeTable {
		cols := m.Dataset().Columns
		if len(cols) > 0 {
			target := cols[m.sortTarget]
			if msg != "" {
				msg += "  "
			}
			msg += "sort column: " + target
		}
	}
	style := lipgloss.NewStyle()
	if !m.theme.NoColor {
		style = style.Foreground(m.theme.StatusColor)
	}
	return style.Render(msg)
}
