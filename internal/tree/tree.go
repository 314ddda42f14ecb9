// Package tree flattens arbitrary nested values (mappings, sequences,
// scalars, multi-line text) into a display tree of labeled nodes for the
// interactive tree view. Nodes live in a growable arena and are addressed by
// their integer index, which doubles as the stable widget identity used for
// expand/collapse bookkeeping.
package tree

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/tvx/internal/formatter"
)

// NodeID is a stable handle for a node: its index in the tree's arena.
// IDs identify widgets only; they carry no ordering or lookup semantics.
type NodeID int

// InvalidID marks the absence of a parent (root nodes).
const InvalidID NodeID = -1

// Node is a single entry in the rendered hierarchical view. A node is either
// a leaf carrying a display value or a branch with children, never both.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Label    string
	Value    string
	Leaf     bool
	Children []NodeID
}

// Options controls flattening behavior.
type Options struct {
	// SortKeys sorts mapping keys ascending. Pairs inputs preserve their own
	// order when this is false; plain Go maps are always sorted since they
	// have no insertion order.
	SortKeys bool
	// ShowUnits adds type/count annotations to branch labels,
	// e.g. "servers [dict] (3 keys)" instead of "servers (3)".
	ShowUnits bool
	// Logger receives skip-and-continue render failures. Defaults to discard.
	Logger logr.Logger
}

// DefaultOptions matches the historical tree view defaults.
func DefaultOptions() Options {
	return Options{SortKeys: true, Logger: logr.Discard()}
}

// Pair is one ordered key/value entry of a mapping whose insertion order is
// significant.
type Pair struct {
	Key   string
	Value interface{}
}

// Pairs is an insertion-ordered mapping.
type Pairs []Pair

// Set is an unordered collection; it is always rendered in canonical sorted
// order regardless of element order, since sets have no inherent ordering.
type Set []interface{}

// Tree holds the flattened nodes plus a retained deep copy of the source
// value. Trees are rebuilt wholesale on reload; there is no incremental
// patching.
type Tree struct {
	nodes  []Node
	roots  []NodeID
	source interface{}
	opts   Options
}

// Flatten converts value into a display tree. Rendering is best-effort: a
// failure under a single key is logged and that key is skipped, siblings
// continue.
func Flatten(value interface{}, opts Options) *Tree {
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	t := &Tree{opts: opts, source: deepCopy(value)}

	switch classify(value) {
	case kindMapping, kindSequence, kindSet, kindMultiline:
		for _, p := range entries(value, opts.SortKeys) {
			if id, ok := t.insertPair(InvalidID, p.Key, p.Value); ok {
				t.roots = append(t.roots, id)
			}
		}
	default:
		// A bare scalar still gets one node so the view is never empty.
		id := t.newNode(InvalidID, "(value)", scalarDisplay(value), true)
		t.roots = append(t.roots, id)
	}
	return t
}

// Node returns the node for id, or nil if the id is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Roots returns the top-level node IDs in render order.
func (t *Tree) Roots() []NodeID { return t.roots }

// Len reports the total number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// NodeIDs returns every node ID in creation order. This is the flat registry
// used for bulk expand/collapse.
func (t *Tree) NodeIDs() []NodeID {
	ids := make([]NodeID, len(t.nodes))
	for i := range t.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// Source returns the retained deep copy of the value the tree was built
// from, so callers can recover the data without re-deriving it from nodes.
func (t *Tree) Source() interface{} { return t.source }

// insertPair renders one key/value pair under parent, recursing into nested
// containers. Returns the new node's ID and whether a node was emitted.
func (t *Tree) insertPair(parent NodeID, key string, value interface{}) (id NodeID, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.opts.Logger.Error(fmt.Errorf("%v", r), "failed to render value, skipping key", "key", key)
			ok = false
		}
	}()

	// Sets have no inherent order; canonicalize before anything else.
	if s, isSet := value.(Set); isSet {
		value = sortedSet(s)
	}

	switch classify(value) {
	case kindMapping:
		ents := entries(value, t.opts.SortKeys)
		id = t.newNode(parent, t.branchLabel(key, len(ents), "dict"), "", false)
		for _, p := range ents {
			t.insertPair(id, p.Key, p.Value)
		}
		return id, true

	case kindSequence:
		elems := sequenceElements(value)
		if len(elems) == 0 {
			id = t.newNode(parent, t.branchLabel(key, 0, "list"), "(empty)", true)
			return id, true
		}
		id = t.newNode(parent, t.branchLabel(key, len(elems), "list"), "", false)
		for i, elem := range elems {
			t.insertPair(id, strconv.Itoa(i+1), elem)
		}
		return id, true

	case kindMultiline:
		lines := splitLines(value.(string))
		id = t.newNode(parent, t.branchLabel(key, len(lines), "text"), "", false)
		for i, line := range lines {
			t.insertPair(id, strconv.Itoa(i+1), line)
		}
		return id, true

	default:
		id = t.newNode(parent, key, scalarDisplay(value), true)
		return id, true
	}
}

func (t *Tree) newNode(parent NodeID, label, value string, leaf bool) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		ID:     id,
		Parent: parent,
		Label:  label,
		Value:  value,
		Leaf:   leaf,
	})
	if parent != InvalidID {
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id
}

// branchLabel renders "key (N)" for dicts, "key (N):" for lists and text, or
// the verbose "key [dict] (N keys)" style when ShowUnits is set.
func (t *Tree) branchLabel(key string, n int, unit string) string {
	if t.opts.ShowUnits {
		switch unit {
		case "dict":
			return fmt.Sprintf("%s [dict] (%d keys)", key, n)
		case "list":
			return fmt.Sprintf("%s [list] (%d items):", key, n)
		case "text":
			return fmt.Sprintf("%s [text] (%d lines):", key, n)
		}
	}
	if unit == "dict" {
		return fmt.Sprintf("%s (%d)", key, n)
	}
	return fmt.Sprintf("%s (%d):", key, n)
}

// kind is the closed set of value shapes the renderer distinguishes.
type kind int

const (
	kindScalar kind = iota
	kindMultiline
	kindSequence
	kindMapping
	kindSet
)

// classify assigns a value to exactly one render variant. Binary blobs and
// other exotic scalars deliberately fall through to kindScalar and are
// stringified.
func classify(v interface{}) kind {
	switch t := v.(type) {
	case nil:
		return kindScalar
	case Set:
		return kindSet
	case Pairs:
		return kindMapping
	case string:
		if strings.Count(strings.TrimRight(t, "\n"), "\n") > 0 {
			return kindMultiline
		}
		return kindScalar
	case map[string]interface{}:
		return kindMapping
	case []interface{}:
		return kindSequence
	case []byte:
		return kindScalar
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // remaining kinds are scalars
	case reflect.Map:
		return kindMapping
	case reflect.Slice, reflect.Array:
		return kindSequence
	}
	return kindScalar
}

// entries returns the ordered key/value pairs of a mapping-like value.
// Pairs keep their own order unless sortKeys is set; plain maps are always
// sorted for determinism.
func entries(v interface{}, sortKeys bool) []Pair {
	switch t := v.(type) {
	case Pairs:
		if !sortKeys {
			return t
		}
		out := make(Pairs, len(t))
		copy(out, t)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
		return out
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Pair, 0, len(t))
		for _, k := range keys {
			out = append(out, Pair{Key: k, Value: t[k]})
		}
		return out
	case []interface{}:
		out := make([]Pair, 0, len(t))
		for i, elem := range t {
			out = append(out, Pair{Key: strconv.Itoa(i + 1), Value: elem})
		}
		return out
	case Set:
		sorted := sortedSet(t)
		out := make([]Pair, 0, len(sorted))
		for i, elem := range sorted {
			out = append(out, Pair{Key: strconv.Itoa(i + 1), Value: elem})
		}
		return out
	case string:
		lines := splitLines(t)
		out := make([]Pair, 0, len(lines))
		for i, line := range lines {
			out = append(out, Pair{Key: strconv.Itoa(i + 1), Value: line})
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // callers classify first
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]interface{}, rv.Len())
		for _, k := range rv.MapKeys() {
			ks := fmt.Sprintf("%v", k.Interface())
			keys = append(keys, ks)
			byKey[ks] = rv.MapIndex(k).Interface()
		}
		sort.Strings(keys)
		out := make([]Pair, 0, len(keys))
		for _, k := range keys {
			out = append(out, Pair{Key: k, Value: byKey[k]})
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]Pair, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, Pair{Key: strconv.Itoa(i + 1), Value: rv.Index(i).Interface()})
		}
		return out
	}
	return nil
}

func sequenceElements(v interface{}) []interface{} {
	if s, ok := v.([]interface{}); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// sortedSet orders set elements canonically: numerically when every element
// is a number, otherwise lexicographically by display string.
func sortedSet(s Set) []interface{} {
	out := make([]interface{}, len(s))
	copy(out, s)

	allNumeric := true
	for _, v := range out {
		if _, ok := toFloat(v); !ok {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := toFloat(out[i])
			b, _ := toFloat(out[j])
			return a < b
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return formatter.Stringify(out[i]) < formatter.Stringify(out[j])
	})
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

// scalarDisplay stringifies a leaf value; nil renders as the literal "None"
// so absent values stay visible in the UI.
func scalarDisplay(v interface{}) string {
	if v == nil {
		return "None"
	}
	return formatter.Stringify(v)
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimRight(s, "\n")
	return strings.Split(s, "\n")
}

// deepCopy clones maps, slices, Pairs and Sets recursively; scalars are
// returned as-is.
func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	case Pairs:
		out := make(Pairs, len(t))
		for i, p := range t {
			out[i] = Pair{Key: p.Key, Value: deepCopy(p.Value)}
		}
		return out
	case Set:
		out := make(Set, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
