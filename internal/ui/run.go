package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/tvx/pkg/loader"
)

// Run starts the interactive viewer for a snapshot. Width/height of 0
// auto-detect the terminal size, falling back to 80x24. Extra ProgramOptions
// (e.g. custom IO for tests) mirror tea.NewProgram.
func Run(snap *loader.Snapshot, opts Options, width, height int, progOpts ...tea.ProgramOption) error {
	m := NewModel(snap, opts)

	if width > 0 || height > 0 {
		runW, runH := width, height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = 80
		}
		if runH <= 0 {
			runH = 24
		}
		m.ForceWindowSize(runW, runH)
		progOpts = append(progOpts, tea.WithWindowSize(runW, runH))
	}

	_, err := tea.NewProgram(m, progOpts...).Run()
	return err
}
