package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	peopleColumns = []string{"age", "city"}
	peopleRows    = [][]string{
		{"25", "NYC"},
		{"40", "LA"},
	}
)

func TestApply_NoCriteriaSelectsAll(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}}
	mask, err := NewEvaluator().Apply([]string{"n"}, rows, "", nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, true, true}, mask)
}

// Clauses fold left-to-right with no precedence: age>30 then OR city=NYC
// selects both rows, one via each side of the OR.
func TestApply_LeftToRightCombination(t *testing.T) {
	clauses := []Clause{
		{Column: "age", Operator: OpGreater, Value: "30", Connective: ConnectiveAnd},
		{Column: "city", Operator: OpEquals, Value: "NYC", Connective: ConnectiveOr},
	}
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, "", clauses)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, mask)
}

func TestApply_NoPrecedence(t *testing.T) {
	// A OR B AND C evaluates as ((A OR B) AND C).
	columns := []string{"a", "b", "c"}
	rows := [][]string{
		{"x", "", ""},  // A only, then AND C fails
		{"x", "", "x"}, // A and C
		{"", "", "x"},  // C only
	}
	clauses := []Clause{
		{Column: "a", Operator: OpEquals, Value: "x"},
		{Column: "b", Operator: OpEquals, Value: "x", Connective: ConnectiveOr},
		{Column: "c", Operator: OpEquals, Value: "x", Connective: ConnectiveAnd},
	}
	mask, err := NewEvaluator().Apply(columns, rows, "", clauses)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, mask)
}

func TestApply_UnknownOperatorSkipsClause(t *testing.T) {
	clauses := []Clause{
		{Column: "age", Operator: OpGreater, Value: "30"},
		{Column: "city", Operator: "resembles", Value: "NYC", Connective: ConnectiveAnd},
	}
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, "", clauses)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, mask)
}

func TestApply_UnknownColumnSkipsClause(t *testing.T) {
	clauses := []Clause{
		{Column: "salary", Operator: OpGreater, Value: "10"},
	}
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, "", clauses)
	require.NoError(t, err)
	// The only clause was skipped, so the mask falls back to select-all.
	assert.Equal(t, []bool{true, true}, mask)
}

func TestApply_NotConnective(t *testing.T) {
	clauses := []Clause{
		{Column: "age", Operator: OpIsNumber},
		{Column: "city", Operator: OpEquals, Value: "LA", Connective: ConnectiveNot},
	}
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, "", clauses)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, mask)
}

func TestClauseOperators(t *testing.T) {
	columns := []string{"v"}
	tests := []struct {
		name   string
		op     string
		value  string
		rows   [][]string
		expect []bool
	}{
		{"contains", OpContains, "an", [][]string{{"banana"}, {"kiwi"}}, []bool{true, false}},
		{"excludes", OpExcludes, "an", [][]string{{"banana"}, {"kiwi"}}, []bool{false, true}},
		{"equals text", OpEquals, "abc", [][]string{{"abc"}, {"abcd"}}, []bool{true, false}},
		{"equals numeric coercion", OpEquals, "3.0", [][]string{{"3"}, {"3.00"}, {"x"}}, []bool{true, true, false}},
		{"not equals", OpNotEquals, "3", [][]string{{"3.0"}, {"4"}}, []bool{false, true}},
		{"greater", OpGreater, "30", [][]string{{"25"}, {"40"}, {"n/a"}}, []bool{false, true, false}},
		{"less", OpLess, "30", [][]string{{"25"}, {"40"}, {"n/a"}}, []bool{true, false, false}},
		{"greater non-numeric value", OpGreater, "abc", [][]string{{"25"}}, []bool{false}},
		{"is empty", OpIsEmpty, "", [][]string{{""}, {"x"}}, []bool{true, false}},
		{"not empty", OpNotEmpty, "", [][]string{{""}, {"x"}}, []bool{false, true}},
		{"starts with", OpStartsWith, "ba", [][]string{{"banana"}, {"abba"}}, []bool{true, false}},
		{"has length", OpHasLength, "3", [][]string{{"abcd"}, {"abc"}, {"ab"}}, []bool{true, false, false}},
		{"is number", OpIsNumber, "", [][]string{{"12.5"}, {"-3"}, {"12x"}}, []bool{true, true, false}},
		{"is lowercase", OpIsLowercase, "", [][]string{{"abc"}, {"Abc"}, {"123"}, {""}}, []bool{true, false, false, false}},
		{"is uppercase", OpIsUppercase, "", [][]string{{"ABC"}, {"Abc"}, {"123"}}, []bool{true, false, false}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mask, err := NewEvaluator().Apply(columns, tc.rows, "", []Clause{
				{Column: "v", Operator: tc.op, Value: tc.value},
			})
			require.NoError(t, err)
			assert.Equal(t, tc.expect, mask)
		})
	}
}

func TestApply_SimpleExpression(t *testing.T) {
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, "age > 30", nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, mask)
}

func TestApply_SimpleExpressionStringLiteral(t *testing.T) {
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, `city == "NYC"`, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, mask)
}

func TestApply_ComplexExpressionFallsBackToCEL(t *testing.T) {
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, `age > 30 || city == "NYC"`, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, mask)
}

func TestApply_ExpressionFunctions(t *testing.T) {
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, `city.startsWith("N")`, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, mask)
}

func TestApply_BadExpressionSurfacesError(t *testing.T) {
	_, err := NewEvaluator().Apply(peopleColumns, peopleRows, "age >", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter expression")
}

func TestApply_UnknownVariableSurfacesError(t *testing.T) {
	_, err := NewEvaluator().Apply(peopleColumns, peopleRows, `salary > 10 && salary < 20`, nil)
	require.Error(t, err)
}

func TestApply_ExpressionThenClauses(t *testing.T) {
	clauses := []Clause{
		{Column: "city", Operator: OpEquals, Value: "NYC", Connective: ConnectiveOr},
	}
	mask, err := NewEvaluator().Apply(peopleColumns, peopleRows, "age > 30", clauses)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, mask)
}

func TestSelect(t *testing.T) {
	rows := [][]string{{"a"}, {"b"}, {"c"}}
	got := Select(rows, []bool{true, false, true})
	assert.Equal(t, [][]string{{"a"}, {"c"}}, got)
}

func TestApply_ShortRowTreatedAsEmptyCell(t *testing.T) {
	columns := []string{"a", "b"}
	rows := [][]string{{"1", "x"}, {"2"}}
	mask, err := NewEvaluator().Apply(columns, rows, "", []Clause{
		{Column: "b", Operator: OpIsEmpty},
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, mask)
}
