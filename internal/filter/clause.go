package filter

import (
	"fmt"
	"strings"
)

// Connectives combine a clause's sub-mask with the accumulated mask. The
// combination is strictly left-to-right with no operator precedence, so
// "A OR B AND C" means "((A OR B) AND C)". Callers relying on standard
// precedence must parenthesize via the free-form expression instead.
const (
	ConnectiveAnd = "AND"
	ConnectiveOr  = "OR"
	ConnectiveNot = "NOT"
)

// Recognized clause operators. Matching is case-sensitive; anything outside
// this set causes the clause to be skipped.
const (
	OpContains    = "contains"
	OpExcludes    = "excludes"
	OpEquals      = "equals"
	OpNotEquals   = "not equals"
	OpGreater     = ">"
	OpLess        = "<"
	OpIsEmpty     = "is empty"
	OpNotEmpty    = "not empty"
	OpStartsWith  = "starts with"
	OpHasLength   = "has length"
	OpIsNumber    = "is number"
	OpIsLowercase = "is lowercase"
	OpIsUppercase = "is uppercase"
)

// Clause is one structured row-selection rule. Connective applies when
// combining this clause's mask with the accumulated mask from prior clauses;
// the first clause's connective is ignored.
type Clause struct {
	Column     string
	Operator   string
	Value      string
	Connective string
}

// clauseOperators lists every operator, multi-word ones first so parsing
// matches "not equals" before "equals".
var clauseOperators = []string{
	OpNotEquals, OpIsEmpty, OpNotEmpty, OpStartsWith, OpHasLength,
	OpIsNumber, OpIsLowercase, OpIsUppercase,
	OpContains, OpExcludes, OpEquals, OpGreater, OpLess,
}

// ParseClause parses the textual clause form "column operator value" with an
// optional trailing AND/OR/NOT connective, e.g. "city equals NYC OR" or
// "notes is empty".
func ParseClause(text string) (Clause, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return Clause{}, fmt.Errorf("clause needs at least a column and an operator: %q", text)
	}
	c := Clause{Column: fields[0]}
	rest := fields[1:]

	switch last := rest[len(rest)-1]; last {
	case ConnectiveAnd, ConnectiveOr, ConnectiveNot:
		c.Connective = last
		rest = rest[:len(rest)-1]
	}

	for _, op := range clauseOperators {
		opFields := strings.Fields(op)
		if len(rest) < len(opFields) {
			continue
		}
		if strings.Join(rest[:len(opFields)], " ") != op {
			continue
		}
		c.Operator = op
		c.Value = strings.Join(rest[len(opFields):], " ")
		return c, nil
	}
	return Clause{}, fmt.Errorf("unrecognized operator in clause %q", text)
}
