package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClause(t *testing.T) {
	tests := []struct {
		in   string
		want Clause
	}{
		{"city equals NYC", Clause{Column: "city", Operator: OpEquals, Value: "NYC"}},
		{"city equals NYC OR", Clause{Column: "city", Operator: OpEquals, Value: "NYC", Connective: ConnectiveOr}},
		{"age > 30 AND", Clause{Column: "age", Operator: OpGreater, Value: "30", Connective: ConnectiveAnd}},
		{"name not equals bob", Clause{Column: "name", Operator: OpNotEquals, Value: "bob"}},
		{"notes is empty", Clause{Column: "notes", Operator: OpIsEmpty}},
		{"notes not empty NOT", Clause{Column: "notes", Operator: OpNotEmpty, Connective: ConnectiveNot}},
		{"name starts with Mc", Clause{Column: "name", Operator: OpStartsWith, Value: "Mc"}},
		{"bio has length 100", Clause{Column: "bio", Operator: OpHasLength, Value: "100"}},
		{"city contains New York", Clause{Column: "city", Operator: OpContains, Value: "New York"}},
		{"code is uppercase", Clause{Column: "code", Operator: OpIsUppercase}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseClause(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseClause_Errors(t *testing.T) {
	for _, in := range []string{"", "city", "city resembles NYC"} {
		_, err := ParseClause(in)
		assert.Error(t, err, in)
	}
}
