package ui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/tvx/internal/tree"
)

// treeView holds expand/collapse and cursor state over a flattened tree.
// The visible list is recomputed after every state change by walking the
// roots depth-first, descending only into expanded branches.
type treeView struct {
	tree     *tree.Tree
	expanded map[tree.NodeID]bool
	visible  []tree.NodeID
	depths   map[tree.NodeID]int
	cursor   int
	offset   int // first visible line, for scrolling
}

func newTreeView(t *tree.Tree) *treeView {
	tv := &treeView{
		tree:     t,
		expanded: make(map[tree.NodeID]bool),
		depths:   make(map[tree.NodeID]int),
	}
	// Roots start expanded so the first screen shows something useful.
	for _, id := range t.Roots() {
		tv.expanded[id] = true
	}
	tv.recompute()
	return tv
}

func (tv *treeView) recompute() {
	tv.visible = tv.visible[:0]
	for _, id := range tv.tree.Roots() {
		tv.walk(id, 0)
	}
	if tv.cursor >= len(tv.visible) {
		tv.cursor = len(tv.visible) - 1
	}
	if tv.cursor < 0 {
		tv.cursor = 0
	}
}

func (tv *treeView) walk(id tree.NodeID, depth int) {
	tv.visible = append(tv.visible, id)
	tv.depths[id] = depth
	if !tv.expanded[id] {
		return
	}
	n := tv.tree.Node(id)
	if n == nil {
		return
	}
	for _, child := range n.Children {
		tv.walk(child, depth+1)
	}
}

// toggle flips the node under the cursor. Leaves are ignored.
func (tv *treeView) toggle() {
	if tv.cursor < 0 || tv.cursor >= len(tv.visible) {
		return
	}
	id := tv.visible[tv.cursor]
	if n := tv.tree.Node(id); n == nil || n.Leaf {
		return
	}
	tv.expanded[id] = !tv.expanded[id]
	tv.recompute()
}

// expandAll opens every branch via the flat ID registry.
func (tv *treeView) expandAll() {
	for _, id := range tv.tree.NodeIDs() {
		if n := tv.tree.Node(id); n != nil && !n.Leaf {
			tv.expanded[id] = true
		}
	}
	tv.recompute()
}

// collapseAll closes every branch, leaving only the roots visible.
func (tv *treeView) collapseAll() {
	for _, id := range tv.tree.NodeIDs() {
		tv.expanded[id] = false
	}
	tv.recompute()
}

func (tv *treeView) moveDown(n int) {
	tv.cursor += n
	if tv.cursor >= len(tv.visible) {
		tv.cursor = len(tv.visible) - 1
	}
	if tv.cursor < 0 {
		tv.cursor = 0
	}
}

func (tv *treeView) moveUp(n int) {
	tv.cursor -= n
	if tv.cursor < 0 {
		tv.cursor = 0
	}
}

func (tv *treeView) gotoTop() { tv.cursor = 0 }

func (tv *treeView) gotoBottom() {
	if len(tv.visible) > 0 {
		tv.cursor = len(tv.visible) - 1
	}
}

// render draws height lines of the tree, scrolling to keep the cursor on
// screen.
func (tv *treeView) render(th Theme, width, height int) string {
	if height <= 0 {
		height = len(tv.visible)
	}
	if tv.cursor < tv.offset {
		tv.offset = tv.cursor
	}
	if tv.cursor >= tv.offset+height {
		tv.offset = tv.cursor - height + 1
	}

	branchStyle := lipgloss.NewStyle()
	leafStyle := lipgloss.NewStyle()
	selectedStyle := lipgloss.NewStyle().Reverse(true)
	if !th.NoColor {
		branchStyle = branchStyle.Foreground(th.BranchColor)
		leafStyle = leafStyle.Foreground(th.LeafColor)
		selectedStyle = lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG)
	}

	var b strings.Builder
	end := tv.offset + height
	if end > len(tv.visible) {
		end = len(tv.visible)
	}
	for i := tv.offset; i < end; i++ {
		id := tv.visible[i]
		n := tv.tree.Node(id)
		if n == nil {
			continue
		}

		line := strings.Repeat("  ", tv.depths[id])
		switch {
		case n.Leaf:
			line += "  " + n.Label
			if n.Value != "" {
				line += ": " + n.Value
			}
		case tv.expanded[id]:
			line += "▾ " + n.Label
		default:
			line += "▸ " + n.Label
		}
		if width > 0 && lipgloss.Width(line) > width {
			line = truncateLine(line, width)
		}

		switch {
		case i == tv.cursor:
			b.WriteString(selectedStyle.Render(line))
		case n.Leaf:
			b.WriteString(leafStyle.Render(line))
		default:
			b.WriteString(branchStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncateLine(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
