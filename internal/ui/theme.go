package ui

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme defines colors used across the UI. It is passed explicitly to the
// model constructor; there is no process-wide mutable palette.
type Theme struct {
	HeaderFG      color.Color // table header text
	HeaderBG      color.Color // table header background
	SelectedFG    color.Color // selected row foreground
	SelectedBG    color.Color // selected row background
	BranchColor   color.Color // tree branch labels
	LeafColor     color.Color // tree leaf values
	InputFG       color.Color // filter input text
	StatusColor   color.Color // normal status text
	StatusError   color.Color // error status text
	FooterFG      color.Color // footer key hints
	HelpKey       color.Color // help overlay key labels
	HelpValue     color.Color // help overlay descriptions
	NoColor       bool        // strip all colors, reverse-video selection
}

func darkTheme() Theme {
	return Theme{
		HeaderFG:    lipgloss.Color("81"),  // cyan headers
		HeaderBG:    lipgloss.Color("236"), // charcoal
		SelectedFG:  lipgloss.Color("250"),
		SelectedBG:  lipgloss.Color("24"), // deep teal selection
		BranchColor: lipgloss.Color("81"),
		LeafColor:   lipgloss.Color("246"),
		InputFG:     lipgloss.Color("246"),
		StatusColor: lipgloss.Color("81"),
		StatusError: lipgloss.Color("203"),
		FooterFG:    lipgloss.Color("244"),
		HelpKey:     lipgloss.Color("81"),
		HelpValue:   lipgloss.Color("245"),
	}
}

func lightTheme() Theme {
	return Theme{
		HeaderFG:    lipgloss.Color("25"), // navy headers
		HeaderBG:    lipgloss.Color("254"),
		SelectedFG:  lipgloss.Color("255"),
		SelectedBG:  lipgloss.Color("31"),
		BranchColor: lipgloss.Color("25"),
		LeafColor:   lipgloss.Color("238"),
		InputFG:     lipgloss.Color("238"),
		StatusColor: lipgloss.Color("25"),
		StatusError: lipgloss.Color("124"),
		FooterFG:    lipgloss.Color("242"),
		HelpKey:     lipgloss.Color("25"),
		HelpValue:   lipgloss.Color("240"),
	}
}

var themePresets = map[string]func() Theme{
	"dark":  darkTheme,
	"light": lightTheme,
}

// DefaultTheme returns the dark palette.
func DefaultTheme() Theme { return darkTheme() }

// ThemeByName resolves a preset name. Unknown names return an error listing
// the available presets.
func ThemeByName(name string) (Theme, error) {
	if fn, ok := themePresets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return fn(), nil
	}
	names := make([]string, 0, len(themePresets))
	for n := range themePresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(names, ", "))
}
