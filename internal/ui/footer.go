package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// keyHint is one key/label pair shown in the footer.
type keyHint struct {
	key   string
	label string
}

func (m *Model) footerHints() []keyHint {
	if m.mode == modeTree {
		if m.keyMode == KeyModeFunction {
			return []keyHint{
				{"↑↓", "move"}, {"enter", "toggle"}, {"F1", "help"}, {"F10", "quit"},
			}
		}
		return []keyHint{
			{"j/k", "move"}, {"enter", "toggle"}, {"e/c", "expand/collapse all"},
			{"?", "help"}, {"q", "quit"},
		}
	}
	if m.keyMode == KeyModeFunction {
		return []keyHint{
			{"↑↓", "move"}, {"F3", "filter"}, {"F5", "clause"}, {"F4", "sort"},
			{"tab", "dataset"}, {"F1", "help"}, {"F10", "quit"},
		}
	}
	return []keyHint{
		{"j/k", "move"}, {"/", "filter"}, {"f", "clause"}, {"s", "sort"},
		{"h/l", "column"}, {"[/]", "dataset"}, {"?", "help"}, {"q", "quit"},
	}
}

func (m *Model) footerLine() string {
	keyStyle := lipgloss.NewStyle().Bold(true)
	labelStyle := lipgloss.NewStyle()
	if !m.theme.NoColor {
		keyStyle = keyStyle.Foreground(m.theme.HelpKey)
		labelStyle = labelStyle.Foreground(m.theme.FooterFG)
	}

	parts := make([]string, 0, 8)
	for _, h := range m.footerHints() {
		parts = append(parts, keyStyle.Render(h.key)+" "+labelStyle.Render(h.label))
	}
	line := strings.Join(parts, "  ")
	if m.winW > 0 && lipgloss.Width(line) > m.winW {
		line = truncateLine(line, m.winW)
	}
	return line
}
