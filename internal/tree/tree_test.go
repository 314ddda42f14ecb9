package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flattenDefault(t *testing.T, v interface{}) *Tree {
	t.Helper()
	return Flatten(v, DefaultOptions())
}

func childLabels(tr *Tree, id NodeID) []string {
	n := tr.Node(id)
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, tr.Node(c).Label)
	}
	return out
}

func childValues(tr *Tree, id NodeID) []string {
	n := tr.Node(id)
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, tr.Node(c).Value)
	}
	return out
}

func TestFlatten_ScalarLeaves(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"name":  "alice",
		"age":   float64(30),
		"tags":  nil,
		"ready": true,
	})

	require.Len(t, tr.Roots(), 4)
	labels := make(map[string]string)
	for _, id := range tr.Roots() {
		n := tr.Node(id)
		assert.True(t, n.Leaf)
		labels[n.Label] = n.Value
	}
	assert.Equal(t, "alice", labels["name"])
	assert.Equal(t, "30", labels["age"])
	assert.Equal(t, "None", labels["tags"])
	assert.Equal(t, "true", labels["ready"])
}

func TestFlatten_SortedKeys(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"zebra": "z", "apple": "a", "mango": "m",
	})
	var labels []string
	for _, id := range tr.Roots() {
		labels = append(labels, tr.Node(id).Label)
	}
	assert.Equal(t, []string{"apple", "mango", "zebra"}, labels)
}

func TestFlatten_PairsPreserveInsertionOrder(t *testing.T) {
	input := Pairs{
		{Key: "zebra", Value: "z"},
		{Key: "apple", Value: "a"},
	}

	unsorted := Flatten(input, Options{SortKeys: false})
	var labels []string
	for _, id := range unsorted.Roots() {
		labels = append(labels, unsorted.Node(id).Label)
	}
	assert.Equal(t, []string{"zebra", "apple"}, labels)

	sorted := Flatten(input, Options{SortKeys: true})
	labels = labels[:0]
	for _, id := range sorted.Roots() {
		labels = append(labels, sorted.Node(id).Label)
	}
	assert.Equal(t, []string{"apple", "zebra"}, labels)
}

func TestFlatten_NestedMapBranchLabel(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"server": map[string]interface{}{"host": "localhost", "port": float64(8080)},
	})

	require.Len(t, tr.Roots(), 1)
	branch := tr.Node(tr.Roots()[0])
	assert.False(t, branch.Leaf)
	assert.Equal(t, "server (2)", branch.Label)
	assert.Equal(t, []string{"host", "port"}, childLabels(tr, branch.ID))
}

func TestFlatten_VerboseUnits(t *testing.T) {
	tr := Flatten(map[string]interface{}{
		"server": map[string]interface{}{"host": "localhost"},
		"items":  []interface{}{"a"},
	}, Options{SortKeys: true, ShowUnits: true})

	var labels []string
	for _, id := range tr.Roots() {
		labels = append(labels, tr.Node(id).Label)
	}
	assert.Contains(t, labels, "server [dict] (1 keys)")
	assert.Contains(t, labels, "items [list] (1 items):")
}

// A set renders its children in sorted order regardless of input order.
func TestFlatten_SetSorted(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"nums": Set{3, 1, 2},
	})

	require.Len(t, tr.Roots(), 1)
	branch := tr.Node(tr.Roots()[0])
	assert.Equal(t, []string{"1", "2", "3"}, childValues(tr, branch.ID))
}

func TestFlatten_SetOfStringsSorted(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"names": Set{"charlie", "alice", "bob"},
	})
	branch := tr.Node(tr.Roots()[0])
	assert.Equal(t, []string{"alice", "bob", "charlie"}, childValues(tr, branch.ID))
}

// An empty sequence becomes a single leaf, never a recursive call.
func TestFlatten_EmptySequence(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"items": []interface{}{},
	})

	require.Len(t, tr.Roots(), 1)
	n := tr.Node(tr.Roots()[0])
	assert.True(t, n.Leaf)
	assert.Empty(t, n.Children)
	assert.Equal(t, "items (0):", n.Label)
	assert.Equal(t, "(empty)", n.Value)
}

// A multi-line string becomes a branch with one ordered leaf per line.
func TestFlatten_MultilineString(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"notes": "a\nb\nc",
	})

	require.Len(t, tr.Roots(), 1)
	branch := tr.Node(tr.Roots()[0])
	assert.False(t, branch.Leaf)
	assert.Equal(t, "notes (3):", branch.Label)
	assert.Equal(t, []string{"1", "2", "3"}, childLabels(tr, branch.ID))
	assert.Equal(t, []string{"a", "b", "c"}, childValues(tr, branch.ID))
}

func TestFlatten_WindowsNewlines(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{"notes": "a\r\nb\r\n"})
	branch := tr.Node(tr.Roots()[0])
	assert.Equal(t, []string{"a", "b"}, childValues(tr, branch.ID))
}

// Exactly one node per scalar leaf and per container boundary; the count is
// deterministic for a given input and options.
func TestFlatten_DeterministicNodeCount(t *testing.T) {
	input := map[string]interface{}{
		"a": "x",
		"b": map[string]interface{}{"c": float64(1), "d": []interface{}{"e", "f"}},
	}
	// a + b + c + d + e + f
	const want = 6

	first := flattenDefault(t, input)
	assert.Equal(t, want, first.Len())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Len(), flattenDefault(t, input).Len())
	}
}

func TestFlatten_SequenceChildrenAreOneBased(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"items": []interface{}{"x", "y"},
	})
	branch := tr.Node(tr.Roots()[0])
	assert.Equal(t, "items (2):", branch.Label)
	assert.Equal(t, []string{"1", "2"}, childLabels(tr, branch.ID))
}

func TestFlatten_ScalarRoot(t *testing.T) {
	tr := flattenDefault(t, "hello")
	require.Len(t, tr.Roots(), 1)
	n := tr.Node(tr.Roots()[0])
	assert.True(t, n.Leaf)
	assert.Equal(t, "hello", n.Value)
}

func TestFlatten_RegistryCoversAllNodes(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"a": map[string]interface{}{"b": "c"},
		"d": []interface{}{"e"},
	})
	ids := tr.NodeIDs()
	assert.Len(t, ids, tr.Len())
	for i, id := range ids {
		assert.Equal(t, NodeID(i), id)
		assert.NotNil(t, tr.Node(id))
	}
}

func TestFlatten_SourceIsDeepCopy(t *testing.T) {
	input := map[string]interface{}{
		"nested": map[string]interface{}{"k": "v"},
	}
	tr := flattenDefault(t, input)

	// Mutating the original must not leak into the retained copy.
	input["nested"].(map[string]interface{})["k"] = "changed"

	src, ok := tr.Source().(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "v", src["nested"].(map[string]interface{})["k"])
}

// Byte slices are opaque scalars, never element-by-element sequences.
func TestFlatten_ByteSliceIsScalar(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"blob": []byte("raw"),
	})
	require.Len(t, tr.Roots(), 1)
	assert.True(t, tr.Node(tr.Roots()[0]).Leaf)
}

func TestFlatten_NestedPairs(t *testing.T) {
	tr := Flatten(Pairs{
		{Key: "outer", Value: Pairs{
			{Key: "b", Value: "2"},
			{Key: "a", Value: "1"},
		}},
	}, Options{SortKeys: false})

	branch := tr.Node(tr.Roots()[0])
	assert.Equal(t, "outer (2)", branch.Label)
	assert.Equal(t, []string{"b", "a"}, childLabels(tr, branch.ID))
}

func TestRender_TreeText(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{
		"server": map[string]interface{}{"host": "localhost"},
		"name":   "demo",
	})
	out := tr.Render()
	assert.Contains(t, out, "server (1)")
	assert.Contains(t, out, "host: localhost")
	assert.Contains(t, out, "name: demo")
	assert.True(t, strings.HasPrefix(out, "."), "treeprint output starts with root marker")
}

func TestNode_OutOfRange(t *testing.T) {
	tr := flattenDefault(t, map[string]interface{}{"a": "b"})
	assert.Nil(t, tr.Node(NodeID(99)))
	assert.Nil(t, tr.Node(InvalidID))
}
