package loader

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// loadDatabase opens a SQLite file and loads every user table as a dataset
// via SELECT *. Table order is alphabetical; subitem narrows by table name or
// index.
func loadDatabase(path, subitem string) (*Snapshot, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	defer db.Close()

	names, err := listTables(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("database %s has no tables", path)
	}

	var datasets []Dataset
	for _, name := range names {
		ds, err := loadTable(db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load table %q: %w", name, err)
		}
		datasets = append(datasets, ds)
	}

	datasets, err = selectSubitem(datasets, subitem)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Source: path, Datasets: datasets}, nil
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// quoteIdent quotes a SQLite identifier. Embedded double quotes are doubled;
// Go's %q backslash escaping is not SQL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func loadTable(db *sql.DB, name string) (Dataset, error) {
	rows, err := db.Query(`SELECT * FROM ` + quoteIdent(name))
	if err != nil {
		return Dataset{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Name: name, Columns: columns}
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return Dataset{}, err
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = cellString(v)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, rows.Err()
}

// cellString renders a scanned SQL value for display. NULL becomes the empty
// string so the "is empty" filter operator sees it as missing.
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
