package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// loadDelimited reads a CSV or TSV file. The first record is the header row;
// ragged records are tolerated and padded at display time.
func loadDelimited(path string, comma rune) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	ds, err := parseDelimited(data, comma)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	ds.Name = filepath.Base(path)
	return &Snapshot{Source: path, Datasets: []Dataset{ds}}, nil
}

func parseDelimited(data []byte, comma rune) (Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return Dataset{}, err
	}
	if len(records) == 0 {
		return Dataset{}, nil
	}
	return Dataset{Columns: records[0], Rows: records[1:]}, nil
}

// LoadStdin drains r fully before any UI starts, buffers the bytes to a
// transient temp CSV file so the data can be reloaded later, and parses it as
// CSV. The caller owns removing the returned temp path when done.
func LoadStdin(r io.Reader) (*Snapshot, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", fmt.Errorf("no data on stdin")
	}

	tmp, err := os.CreateTemp("", "tvx-stdin-*.csv")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create temp buffer: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, "", fmt.Errorf("failed to buffer stdin: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, "", fmt.Errorf("failed to buffer stdin: %w", err)
	}

	ds, err := parseDelimited(data, ',')
	if err != nil {
		os.Remove(tmp.Name())
		return nil, "", fmt.Errorf("failed to parse stdin as CSV: %w", err)
	}
	ds.Name = "stdin"
	return &Snapshot{Source: "stdin", Datasets: []Dataset{ds}}, tmp.Name(), nil
}
