// Package loader reads tabular and structured data files into in-memory
// snapshots. A snapshot is created once per load and is read-only afterwards;
// filtering happens via masks so the original rows are always recoverable.
package loader

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Dataset is one named row/column grid. Cells are display strings; numeric
// interpretation happens at filter/sort time.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Snapshot is the result of loading one source: an ordered collection of
// datasets for tabular data, or a structured root value for nested data that
// does not fit a grid.
type Snapshot struct {
	// Source describes where the data came from, for the UI title bar.
	Source string
	// Datasets holds the grids in file order (sheets, tables, or a single
	// dataset for flat formats).
	Datasets []Dataset
	// Value is the decoded root of a structured file whose shape is not an
	// array of records. Nil for tabular sources.
	Value interface{}
}

// Tabular reports whether the snapshot carries grid data rather than a
// structured root value. A structured file that decodes to null (empty YAML,
// a JSON `null`) has a nil Value and no datasets; it is not tabular and
// renders as a tree with a None leaf.
func (s *Snapshot) Tabular() bool {
	return s.Value == nil && len(s.Datasets) > 0
}

// Load reads path and dispatches on its extension. subitem optionally narrows
// a multi-dataset source (workbook sheet or database table) by name or
// zero-based index; an empty subitem loads everything.
func Load(path, subitem string) (*Snapshot, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return loadDelimited(path, ',')
	case ".tsv":
		return loadDelimited(path, '\t')
	case ".xlsx", ".xlsm", ".xls", ".ods":
		return loadWorkbook(path, subitem)
	case ".json", ".yaml", ".yml", ".toml":
		return loadStructured(path, ext)
	case ".db", ".sqlite", ".sqlite3":
		return loadDatabase(path, subitem)
	}
	return nil, fmt.Errorf("unsupported file type %q (supported: %s)", ext, strings.Join(SupportedExtensions(), ", "))
}

// SupportedExtensions lists the extensions Load dispatches on, for error
// messages and the file picker.
func SupportedExtensions() []string {
	return []string{
		".csv", ".tsv",
		".xlsx", ".xlsm", ".xls", ".ods",
		".json", ".yaml", ".yml", ".toml",
		".db", ".sqlite", ".sqlite3",
	}
}

// Supported reports whether path has an extension Load can dispatch.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// selectSubitem narrows datasets to the one named or indexed by subitem.
// Names are matched first; a purely numeric subitem falls back to a
// zero-based index.
func selectSubitem(datasets []Dataset, subitem string) ([]Dataset, error) {
	if subitem == "" {
		return datasets, nil
	}
	for _, ds := range datasets {
		if ds.Name == subitem {
			return []Dataset{ds}, nil
		}
	}
	if idx, err := strconv.Atoi(subitem); err == nil {
		if idx < 0 || idx >= len(datasets) {
			return nil, fmt.Errorf("subitem index %d out of range (have %d)", idx, len(datasets))
		}
		return []Dataset{datasets[idx]}, nil
	}
	names := make([]string, len(datasets))
	for i, ds := range datasets {
		names[i] = ds.Name
	}
	return nil, fmt.Errorf("no subitem %q (available: %s)", subitem, strings.Join(names, ", "))
}
