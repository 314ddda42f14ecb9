package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

type helpEntry struct {
	key  string
	desc string
}

var tableHelp = []helpEntry{
	{"j / k, ↓ / ↑", "move cursor"},
	{"gg / G", "jump to top / bottom"},
	{"/", "edit filter expression (enter applies, esc cancels)"},
	{"f", "add a filter clause: column operator value [AND|OR|NOT]"},
	{"esc", "clear expression, clauses and mask"},
	{"h / l", "choose sort column"},
	{"s", "sort by chosen column (again to reverse)"},
	{"[ / ], tab", "previous / next dataset"},
	{"?", "toggle this help"},
	{"q, ctrl+c", "quit"},
}

var treeHelp = []helpEntry{
	{"j / k, ↓ / ↑", "move cursor"},
	{"gg / G", "jump to top / bottom"},
	{"enter", "expand or collapse the selected branch"},
	{"e / c", "expand / collapse everything"},
	{"?", "toggle this help"},
	{"q, ctrl+c", "quit"},
}

func (m *Model) helpView() string {
	entries := tableHelp
	title := "Table view keys"
	if m.mode == modeTree {
		entries = treeHelp
		title = "Tree view keys"
	}

	keyStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle()
	titleStyle := lipgloss.NewStyle().Bold(true)
	if !m.theme.NoColor {
		keyStyle = keyStyle.Foreground(m.theme.HelpKey)
		descStyle = descStyle.Foreground(m.theme.HelpValue)
		titleStyle = titleStyle.Foreground(m.theme.HeaderFG)
	}

	keyWidth := 0
	for _, e := range entries {
		if len(e.key) > keyWidth {
			keyWidth = len(e.key)
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	for _, e := range entries {
		pad := strings.Repeat(" ", keyWidth-len(e.key))
		b.WriteString("  " + keyStyle.Render(e.key) + pad + "  " + descStyle.Render(e.desc) + "\n")
	}
	b.WriteString("\npress ? or esc to close")
	return b.String()
}
