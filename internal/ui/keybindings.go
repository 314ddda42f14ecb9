package ui

// KeyMode selects the keybinding set.
type KeyMode string

const (
	// KeyModeVim enables vim-style keybindings (j/k navigation, / filter).
	KeyModeVim KeyMode = "vim"
	// KeyModeFunction disables single-key shortcuts so every printable key is
	// free for text entry; navigation uses arrows and function keys only.
	KeyModeFunction KeyMode = "function"
)

// DefaultKeyMode is what new models start with.
const DefaultKeyMode = KeyModeVim

// ValidKeyModes lists the accepted key modes for flag validation.
var ValidKeyModes = []KeyMode{KeyModeVim, KeyModeFunction}

// IsValidKeyMode checks a key mode string from config or flags.
func IsValidKeyMode(mode string) bool {
	for _, m := range ValidKeyModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// Action is a UI action triggered by a keybinding.
type Action string

const (
	ActionNone        Action = ""
	ActionDown        Action = "down"
	ActionUp          Action = "up"
	ActionTop         Action = "top"
	ActionBottom      Action = "bottom"
	ActionFilter      Action = "filter"
	ActionClause      Action = "clause"
	ActionClearFilter Action = "clear_filter"
	ActionSort        Action = "sort"
	ActionNextColumn  Action = "next_column"
	ActionPrevColumn  Action = "prev_column"
	ActionNextDataset Action = "next_dataset"
	ActionPrevDataset Action = "prev_dataset"
	ActionToggleNode  Action = "toggle_node"
	ActionExpandAll   Action = "expand_all"
	ActionCollapseAll Action = "collapse_all"
	ActionHelp        Action = "help"
	ActionQuit        Action = "quit"
	ActionPendingG    Action = "pending_g" // waiting for the second g in gg
)

// vimKeyBindings is the default vim-mode mapping.
var vimKeyBindings = map[string]Action{
	"j":      ActionDown,
	"down":   ActionDown,
	"k":      ActionUp,
	"up":     ActionUp,
	"g":      ActionPendingG,
	"G":      ActionBottom,
	"/":      ActionFilter,
	"f":      ActionClause,
	"esc":    ActionClearFilter,
	"s":      ActionSort,
	"h":      ActionPrevColumn,
	"left":   ActionPrevColumn,
	"l":      ActionNextColumn,
	"right":  ActionNextColumn,
	"]":      ActionNextDataset,
	"tab":    ActionNextDataset,
	"[":      ActionPrevDataset,
	"enter":  ActionToggleNode,
	"e":      ActionExpandAll,
	"c":      ActionCollapseAll,
	"?":      ActionHelp,
	"q":      ActionQuit,
	"ctrl+c": ActionQuit,
}

// functionKeyBindings keeps only non-printable keys bound.
var functionKeyBindings = map[string]Action{
	"down":   ActionDown,
	"up":     ActionUp,
	"home":   ActionTop,
	"end":    ActionBottom,
	"f3":     ActionFilter,
	"f5":     ActionClause,
	"esc":    ActionClearFilter,
	"f4":     ActionSort,
	"left":   ActionPrevColumn,
	"right":  ActionNextColumn,
	"tab":    ActionNextDataset,
	"shift+tab": ActionPrevDataset,
	"enter":  ActionToggleNode,
	"f1":     ActionHelp,
	"f10":    ActionQuit,
	"ctrl+c": ActionQuit,
}

// resolveKey maps a key string to an action for the model's key mode,
// handling the two-key gg sequence.
func (m *Model) resolveKey(keyStr string) Action {
	bindings := vimKeyBindings
	if m.keyMode == KeyModeFunction {
		bindings = functionKeyBindings
	}

	if m.pendingKey == "g" {
		m.pendingKey = ""
		if keyStr == "g" {
			return ActionTop
		}
		// The pending g is consumed; the new key resolves on its own.
	}

	action, ok := bindings[keyStr]
	if !ok {
		return ActionNone
	}
	if action == ActionPendingG {
		m.pendingKey = "g"
		return ActionNone
	}
	return action
}
