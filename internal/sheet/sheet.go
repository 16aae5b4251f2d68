// Package sheet reads product listings from Excel workbooks and normalises
// their price, rating and discount columns into numbers.
package sheet

import (
	"errors"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet is returned when a workbook has no sheet of the requested name.
var ErrNoSheet = errors.New("sheet not found")

// Table is one sheet: the first row names the columns, every other row is
// padded to the column count. Raw cells are strings; cleaned numeric cells are
// float64, or nil where nothing could be extracted.
type Table struct {
	Sheet   string   `json:"sheet" yaml:"sheet"`
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]any  `json:"rows" yaml:"rows"`
}

// Column returns the index of name, or -1.
func (t Table) Column(name string) int {
	return slices.Index(t.Columns, name)
}

// Workbook is an open .xlsx file.
type Workbook struct {
	path string
	file *excelize.File
}

// Open opens the workbook at path. Callers close it.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// Sheets lists sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// Read loads a sheet. An empty name reads the first sheet.
func (w *Workbook) Read(name string) (Table, error) {
	sheets := w.Sheets()
	if name == "" {
		if len(sheets) == 0 {
			return Table{}, fmt.Errorf("%s: %w", w.path, ErrNoSheet)
		}
		name = sheets[0]
	}
	if !slices.Contains(sheets, name) {
		return Table{}, fmt.Errorf("%w: %q in %s (have %v)", ErrNoSheet, name, w.path, sheets)
	}

	rows, err := w.file.GetRows(name)
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", name, err)
	}

	t := Table{Sheet: name, Columns: []string{}, Rows: [][]any{}}
	if len(rows) == 0 {
		return t, nil
	}
	t.Columns = rows[0]
	for _, r := range rows[1:] {
		row := make([]any, len(t.Columns))
		for i := range row {
			row[i] = ""
			if i < len(r) {
				row[i] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}
