package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tvx/internal/formatter"
)

// loadStructured decodes a JSON, YAML or TOML file. An array of flat records
// becomes a tabular dataset; any other shape is kept as a structured root
// value for the tree view.
func loadStructured(path, ext string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var value interface{}
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported structured format %q", ext)
	}

	if ds, ok := datasetFromRecords(value); ok {
		ds.Name = filepath.Base(path)
		return &Snapshot{Source: path, Datasets: []Dataset{ds}}, nil
	}
	return &Snapshot{Source: path, Value: value}, nil
}

// datasetFromRecords converts a non-empty array of mapping records into a
// grid. Columns are the union of record keys in first-appearance order so the
// leading record's layout wins; missing cells stay empty.
func datasetFromRecords(value interface{}) (Dataset, bool) {
	arr, ok := value.([]interface{})
	if !ok || len(arr) == 0 {
		return Dataset{}, false
	}

	records := make([]map[string]interface{}, 0, len(arr))
	for _, elem := range arr {
		rec, ok := elem.(map[string]interface{})
		if !ok {
			return Dataset{}, false
		}
		records = append(records, rec)
	}

	var columns []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, key := range sortedKeys(rec) {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}

	ds := Dataset{Columns: columns}
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := rec[col]; ok && v != nil {
				row[i] = formatter.Stringify(v)
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic column order within one record.
	sort.Strings(keys)
	return keys
}
