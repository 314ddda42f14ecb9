// Package filter builds row-selection masks for tabular data from a free-form
// boolean expression plus an ordered list of structured clauses. Expressions
// try a fast structured path first and fall back to CEL; clauses combine
// strictly left-to-right via their connectives.
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/cel-go/cel"
	celext "github.com/google/cel-go/ext"
)

// Evaluator computes boolean row masks over a table.
type Evaluator struct{}

// NewEvaluator creates an evaluator. It carries no state; the CEL environment
// is rebuilt per expression since the variable set depends on the columns.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Apply produces a boolean mask of len(rows) selecting matching rows.
//
// When expr is non-empty it is evaluated row-wise with column names as free
// variables; a compilation failure is returned to the caller. Clauses then
// fold into the accumulated mask left-to-right. With no expression and no
// usable clauses the mask selects every row.
func (e *Evaluator) Apply(columns []string, rows [][]string, expr string, clauses []Clause) ([]bool, error) {
	mask := make([]bool, len(rows))
	initialized := false

	if strings.TrimSpace(expr) != "" {
		m, err := e.evalExpression(columns, rows, strings.TrimSpace(expr))
		if err != nil {
			return nil, err
		}
		mask = m
		initialized = true
	}

	for _, c := range clauses {
		sub, ok := clauseMask(columns, rows, c)
		if !ok {
			continue
		}
		if !initialized {
			mask = sub
			initialized = true
			continue
		}
		combine(mask, sub, c.Connective)
	}

	if !initialized {
		for i := range mask {
			mask[i] = true
		}
	}
	return mask, nil
}

// Select returns the rows the mask selects, preserving order.
func Select(rows [][]string, mask []bool) [][]string {
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i < len(mask) && mask[i] {
			out = append(out, row)
		}
	}
	return out
}

// combine folds sub into acc in place. NOT keeps rows in acc that the
// sub-mask rejects. Unknown connectives default to AND.
func combine(acc, sub []bool, connective string) {
	for i := range acc {
		switch connective {
		case ConnectiveOr:
			acc[i] = acc[i] || sub[i]
		case ConnectiveNot:
			acc[i] = acc[i] && !sub[i]
		default:
			acc[i] = acc[i] && sub[i]
		}
	}
}

// clauseMask computes one clause's sub-mask. Returns ok=false when the
// operator is unrecognized or the column does not exist, in which case the
// clause is skipped entirely.
func clauseMask(columns []string, rows [][]string, c Clause) ([]bool, bool) {
	col := columnIndex(columns, c.Column)
	if col < 0 {
		return nil, false
	}
	pred, ok := cellPredicate(c.Operator, c.Value)
	if !ok {
		return nil, false
	}

	mask := make([]bool, len(rows))
	for i, row := range rows {
		cell := ""
		if col < len(row) {
			cell = row[col]
		}
		mask[i] = pred(cell)
	}
	return mask, true
}

// cellPredicate maps an operator string to a per-cell test.
func cellPredicate(op, value string) (func(string) bool, bool) {
	switch op {
	case OpContains:
		return func(cell string) bool { return strings.Contains(cell, value) }, true
	case OpExcludes:
		return func(cell string) bool { return !strings.Contains(cell, value) }, true
	case OpEquals:
		return equalsPredicate(value, false), true
	case OpNotEquals:
		return equalsPredicate(value, true), true
	case OpGreater:
		return orderedPredicate(value, func(a, b float64) bool { return a > b }), true
	case OpLess:
		return orderedPredicate(value, func(a, b float64) bool { return a < b }), true
	case OpIsEmpty:
		return func(cell string) bool { return cell == "" }, true
	case OpNotEmpty:
		return func(cell string) bool { return cell != "" }, true
	case OpStartsWith:
		return func(cell string) bool { return strings.HasPrefix(cell, value) }, true
	case OpHasLength:
		return func(cell string) bool {
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return false
			}
			return float64(utf8.RuneCountInString(cell)) > n
		}, true
	case OpIsNumber:
		return func(cell string) bool {
			_, err := strconv.ParseFloat(cell, 64)
			return err == nil
		}, true
	case OpIsLowercase:
		return casePredicate(strings.ToLower), true
	case OpIsUppercase:
		return casePredicate(strings.ToUpper), true
	}
	return nil, false
}

// equalsPredicate compares numerically when both sides parse as numbers,
// textually otherwise.
func equalsPredicate(value string, negate bool) func(string) bool {
	want, wantNumeric := parseNumber(value)
	return func(cell string) bool {
		eq := cell == value
		if wantNumeric {
			if got, ok := parseNumber(cell); ok {
				eq = got == want
			}
		}
		if negate {
			return !eq
		}
		return eq
	}
}

// orderedPredicate builds a numeric comparison. Cells or values that fail
// numeric coercion yield false for that row rather than aborting the query.
func orderedPredicate(value string, cmp func(a, b float64) bool) func(string) bool {
	want, wantNumeric := parseNumber(value)
	return func(cell string) bool {
		if !wantNumeric {
			return false
		}
		got, ok := parseNumber(cell)
		if !ok {
			return false
		}
		return cmp(got, want)
	}
}

// casePredicate reports whether the cell has cased characters and folding it
// is a no-op, mirroring str.islower/str.isupper semantics.
func casePredicate(fold func(string) string) func(string) bool {
	return func(cell string) bool {
		if cell == "" {
			return false
		}
		if strings.ToLower(cell) == strings.ToUpper(cell) {
			// No cased characters at all.
			return false
		}
		return fold(cell) == cell
	}
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

// simpleExprRE matches "column op literal" comparisons the fast path handles
// without pulling in the full expression engine. The literal must be a single
// quoted string or bare token so compound expressions fall through to CEL.
var simpleExprRE = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(==|!=|>=|<=|>|<)\s*("[^"]*"|'[^']*'|-?[A-Za-z0-9_.]+)$`)

// evalExpression evaluates a row-wise boolean expression. Simple single
// comparisons take a direct structured path; everything else compiles as CEL
// with one variable per column. Compilation and binding failures surface to
// the caller so bad syntax or unknown column names are never silently empty.
func (e *Evaluator) evalExpression(columns []string, rows [][]string, expr string) ([]bool, error) {
	if mask, ok := e.evalSimple(columns, rows, expr); ok {
		return mask, nil
	}
	return e.evalCEL(columns, rows, expr)
}

// evalSimple handles the "column op literal" shape. Returns ok=false when the
// expression does not fit, deferring to CEL.
func (e *Evaluator) evalSimple(columns []string, rows [][]string, expr string) ([]bool, bool) {
	m := simpleExprRE.FindStringSubmatch(expr)
	if m == nil {
		return nil, false
	}
	col := columnIndex(columns, m[1])
	if col < 0 {
		return nil, false
	}
	lit := strings.TrimSpace(m[3])
	if unquoted, err := strconv.Unquote(lit); err == nil {
		lit = unquoted
	} else if strings.HasPrefix(lit, "'") && strings.HasSuffix(lit, "'") && len(lit) >= 2 {
		lit = lit[1 : len(lit)-1]
	}
	pred, ok := comparisonPredicate(m[2], lit)
	if !ok {
		return nil, false
	}

	mask := make([]bool, len(rows))
	for i, row := range rows {
		cell := ""
		if col < len(row) {
			cell = row[col]
		}
		mask[i] = pred(cell)
	}
	return mask, true
}

func comparisonPredicate(op, lit string) (func(string) bool, bool) {
	switch op {
	case "==":
		return equalsPredicate(lit, false), true
	case "!=":
		return equalsPredicate(lit, true), true
	case ">":
		return orderedPredicate(lit, func(a, b float64) bool { return a > b }), true
	case "<":
		return orderedPredicate(lit, func(a, b float64) bool { return a < b }), true
	case ">=":
		return orderedPredicate(lit, func(a, b float64) bool { return a >= b }), true
	case "<=":
		return orderedPredicate(lit, func(a, b float64) bool { return a <= b }), true
	}
	return nil, false
}

// evalCEL compiles the expression with every syntactically addressable column
// declared as a dyn variable and evaluates it once per row. Cells that parse
// as numbers bind numerically so "age > 30" works without casts.
func (e *Evaluator) evalCEL(columns []string, rows [][]string, expr string) ([]bool, error) {
	opts := []cel.EnvOption{
		// Cells bind as doubles while expression literals are usually ints.
		cel.CrossTypeNumericComparisons(true),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	}
	declared := make(map[string]int)
	for i, col := range columns {
		if !isIdentifier(col) {
			continue
		}
		if _, dup := declared[col]; dup {
			continue
		}
		declared[col] = i
		opts = append(opts, cel.Variable(col, cel.DynType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create expression environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter program: %w", err)
	}

	mask := make([]bool, len(rows))
	for i, row := range rows {
		vars := make(map[string]interface{}, len(declared))
		for name, idx := range declared {
			cell := ""
			if idx < len(row) {
				cell = row[idx]
			}
			if f, ok := parseNumber(cell); ok && cell != "" {
				vars[name] = f
			} else {
				vars[name] = cell
			}
		}
		out, _, err := prg.Eval(vars)
		if err != nil {
			// Row-level type mismatches select nothing for that row.
			continue
		}
		if b, ok := out.Value().(bool); ok {
			mask[i] = b
		}
	}
	return mask, nil
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isIdentifier(s string) bool {
	return identifierRE.MatchString(s)
}
