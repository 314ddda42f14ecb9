package formatter

import (
	"strings"
	"testing"
)

func TestStringify_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"multiline escaped", "a\nb", "a\\nb"},
		{"windows newlines", "a\r\nb", "a\\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringify_Containers(t *testing.T) {
	got := Stringify(map[string]any{"a": float64(1)})
	if got != `{"a":1}` {
		t.Errorf("map stringify = %q", got)
	}
	got = Stringify([]any{"x", "y"})
	if got != `["x","y"]` {
		t.Errorf("slice stringify = %q", got)
	}
}

func TestStringifyPreserveNewlines(t *testing.T) {
	got := StringifyPreserveNewlines("a\r\nb\nc")
	if got != "a\nb\nc" {
		t.Errorf("got %q", got)
	}
}

func TestFormatGrid_Basic(t *testing.T) {
	out := FormatGrid(
		[]string{"name", "age"},
		[][]string{{"alice", "30"}, {"bob", "25"}},
		GridOptions{},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + separator + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "name") || !strings.Contains(lines[0], "age") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("separator line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "alice") {
		t.Errorf("first row = %q", lines[2])
	}
}

func TestFormatGrid_RowNumbers(t *testing.T) {
	out := FormatGrid([]string{"v"}, [][]string{{"a"}, {"b"}}, GridOptions{ShowRowNumbers: true})
	if !strings.Contains(out, "1") || !strings.Contains(out, "2") {
		t.Errorf("expected row numbers in output:\n%s", out)
	}
}

func TestFormatGrid_TruncatesWideCells(t *testing.T) {
	long := strings.Repeat("x", 100)
	out := FormatGrid([]string{"v"}, [][]string{{long}}, GridOptions{MaxColWidth: 10})
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 12 {
			t.Errorf("line exceeds capped width: %q", line)
		}
	}
	if !strings.Contains(out, "…") {
		t.Errorf("expected truncation marker:\n%s", out)
	}
}

func TestFormatGrid_MissingCells(t *testing.T) {
	out := FormatGrid([]string{"a", "b"}, [][]string{{"only"}}, GridOptions{})
	if !strings.Contains(out, "only") {
		t.Errorf("expected short row to render:\n%s", out)
	}
}

func TestFormatGrid_Empty(t *testing.T) {
	if out := FormatGrid(nil, nil, GridOptions{}); out != "" {
		t.Errorf("expected empty output for no columns, got %q", out)
	}
}
