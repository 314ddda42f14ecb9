package loader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// loadWorkbook reads every sheet of a spreadsheet file into one dataset per
// sheet. Sheet order follows the workbook; subitem narrows by sheet name or
// index.
func loadWorkbook(path, subitem string) (*Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	var datasets []Dataset
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		ds := Dataset{Name: sheet}
		if len(rows) > 0 {
			ds.Columns = rows[0]
			ds.Rows = rows[1:]
		}
		datasets = append(datasets, ds)
	}
	if len(datasets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	datasets, err = selectSubitem(datasets, subitem)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Source: path, Datasets: datasets}, nil
}
