package tree

import (
	"github.com/xlab/treeprint"
)

// Render returns the tree as ASCII art for non-interactive output. Branch
// labels keep their child-count annotations; leaves render "label: value".
func (t *Tree) Render() string {
	root := treeprint.New()
	for _, id := range t.roots {
		t.renderNode(root, id)
	}
	return root.String()
}

func (t *Tree) renderNode(branch treeprint.Tree, id NodeID) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if n.Leaf {
		if n.Value == "" {
			branch.AddNode(n.Label)
			return
		}
		branch.AddNode(n.Label + ": " + n.Value)
		return
	}
	child := branch.AddBranch(n.Label)
	for _, c := range n.Children {
		t.renderNode(child, c)
	}
}
