package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/tvx/pkg/loader"
)

// pickerEntry is one row in the file browser: a directory or a loadable file.
type pickerEntry struct {
	name  string
	isDir bool
}

// pickerModel is a minimal file browser shown when tvx starts with no file
// and no piped stdin. It lists directories plus files with a supported
// extension; picking a file ends the program with the choice recorded.
type pickerModel struct {
	dir     string
	entries []pickerEntry
	cursor  int
	offset  int
	theme   Theme
	chosen  string
	errMsg  string
	winW    int
	winH    int
}

func newPickerModel(startDir string, th Theme) (*pickerModel, error) {
	m := &pickerModel{dir: startDir, theme: th, winW: 80, winH: 24}
	if err := m.readDir(startDir); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *pickerModel) readDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", abs, err)
	}

	entries := []pickerEntry{}
	if filepath.Dir(abs) != abs {
		entries = append(entries, pickerEntry{name: "..", isDir: true})
	}
	for _, e := range dirEntries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			entries = append(entries, pickerEntry{name: e.Name(), isDir: true})
			continue
		}
		if loader.Supported(e.Name()) {
			entries = append(entries, pickerEntry{name: e.Name()})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		return entries[i].name < entries[j].name
	})

	m.dir = abs
	m.entries = entries
	m.cursor = 0
	m.offset = 0
	return nil
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.winW = msg.Width
		m.winH = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = len(m.entries) - 1
		case "enter", "l", "right":
			return m.open()
		case "h", "left", "backspace":
			if err := m.readDir(filepath.Dir(m.dir)); err != nil {
				m.errMsg = err.Error()
			}
		}
	}
	return m, nil
}

func (m *pickerModel) open() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return m, nil
	}
	e := m.entries[m.cursor]
	target := filepath.Join(m.dir, e.name)
	if e.isDir {
		if err := m.readDir(target); err != nil {
			m.errMsg = err.Error()
		}
		return m, nil
	}
	m.chosen = target
	return m, tea.Quit
}

func (m *pickerModel) View() tea.View {
	height := m.winH - 3
	if height < 1 {
		height = 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	dirStyle := lipgloss.NewStyle()
	selectedStyle := lipgloss.NewStyle().Reverse(true)
	if !m.theme.NoColor {
		titleStyle = titleStyle.Foreground(m.theme.HeaderFG).Background(m.theme.HeaderBG)
		dirStyle = dirStyle.Foreground(m.theme.BranchColor)
		selectedStyle = lipgloss.NewStyle().Foreground(m.theme.SelectedFG).Background(m.theme.SelectedBG)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Width(m.winW).Render(" " + m.dir))
	b.WriteString("\n")

	end := m.offset + height
	if end > len(m.entries) {
		end = len(m.entries)
	}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		line := "  " + e.name
		if e.isDir {
			line += "/"
		}
		switch {
		case i == m.cursor:
			b.WriteString(selectedStyle.Render(line))
		case e.isDir:
			b.WriteString(dirStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("error: " + m.errMsg + "\n")
	}
	b.WriteString("enter open · esc cancel")

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

// PickFile runs the file browser and returns the chosen path, or an empty
// string when the user cancels.
func PickFile(startDir string, th Theme, opts ...tea.ProgramOption) (string, error) {
	m, err := newPickerModel(startDir, th)
	if err != nil {
		return "", err
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(*pickerModel); ok {
		return fm.chosen, nil
	}
	return "", nil
}
