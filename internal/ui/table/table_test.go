package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel() *Model {
	return New(
		[]string{"name", "age"},
		[][]string{
			{"bob", "40"},
			{"alice", "9"},
			{"carol", "35"},
		},
	)
}

func TestSetMask(t *testing.T) {
	m := newTestModel()
	require.Len(t, m.VisibleRows(), 3)

	m.SetMask([]bool{true, false, true})
	require.Len(t, m.VisibleRows(), 2)
	assert.Equal(t, "bob", m.VisibleRows()[0][0])
	assert.Equal(t, "carol", m.VisibleRows()[1][0])

	// Originals untouched.
	assert.Len(t, m.AllRows(), 3)

	m.ClearMask()
	assert.Len(t, m.VisibleRows(), 3)
}

func TestSortBy_Numeric(t *testing.T) {
	m := newTestModel()
	m.SortBy(1)

	// Numeric order, not lexicographic ("9" sorts before "35").
	assert.Equal(t, "9", m.VisibleRows()[0][1])
	assert.Equal(t, "35", m.VisibleRows()[1][1])
	assert.Equal(t, "40", m.VisibleRows()[2][1])

	m.SortBy(1)
	_, desc := m.SortState()
	assert.True(t, desc)
	assert.Equal(t, "40", m.VisibleRows()[0][1])
}

func TestSortBy_Text(t *testing.T) {
	m := newTestModel()
	m.SortBy(0)
	assert.Equal(t, "alice", m.VisibleRows()[0][0])
	assert.Equal(t, "bob", m.VisibleRows()[1][0])
}

func TestSortBy_OutOfRangeClears(t *testing.T) {
	m := newTestModel()
	m.SortBy(0)
	m.SortBy(-1)
	col, _ := m.SortState()
	assert.Equal(t, -1, col)
	// Back to original order.
	assert.Equal(t, "bob", m.VisibleRows()[0][0])
}

func TestSortSurvivesMask(t *testing.T) {
	m := newTestModel()
	m.SortBy(1)
	m.SetMask([]bool{true, true, false})
	rows := m.VisibleRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "9", rows[0][1])
	assert.Equal(t, "40", rows[1][1])
}

func TestSetDataResetsState(t *testing.T) {
	m := newTestModel()
	m.SortBy(0)
	m.SetMask([]bool{true, false, false})

	m.SetData([]string{"x"}, [][]string{{"1"}, {"2"}})
	col, _ := m.SortState()
	assert.Equal(t, -1, col)
	assert.Len(t, m.VisibleRows(), 2)
}

func TestSelectedRow(t *testing.T) {
	m := newTestModel()
	m.SetCursor(1)
	row := m.SelectedRow()
	require.NotNil(t, row)
	assert.Equal(t, "alice", row[0])

	m.SetMask([]bool{false, false, false})
	assert.Nil(t, m.SelectedRow())
}

func TestViewContainsHeadersAndRows(t *testing.T) {
	m := newTestModel()
	m.SetNoColor(true)
	m.SetSize(60, 10)
	out := m.View()
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "alice")
}

func TestPadRow(t *testing.T) {
	assert.Equal(t, Row{"a", ""}, padRow([]string{"a"}, 2))
	assert.Equal(t, Row{"a", "b"}, padRow([]string{"a", "b", "c"}, 2))
}
