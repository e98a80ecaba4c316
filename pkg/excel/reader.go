// pkg/excel/reader.go
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bomdash/bom-ingress/pkg/cleaner"
)

// Reader reads sheets from one open workbook as rectangular string grids.
type Reader struct {
	file *excelize.File
}

// OpenWorkbookFile opens an xlsx file from disk.
func OpenWorkbookFile(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Reader{file: f}, nil
}

// SheetNames lists the workbook's sheets in order.
func (r *Reader) SheetNames() []string {
	return r.file.GetSheetList()
}

// HasSheet reports whether the named sheet exists.
func (r *Reader) HasSheet(name string) bool {
	for _, s := range r.SheetNames() {
		if s == name {
			return true
		}
	}
	return false
}

// ReadSheet returns a sheet as a rectangular grid: row 0 is the header,
// every row padded to the header width. Multi-row header continuations
// directly below the header are dropped.
func (r *Reader) ReadSheet(name string) ([][]string, error) {
	rows, err := r.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", name)
	}

	width := len(rows[0])
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	grid := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		grid[i] = padded
	}

	grid, _ = cleaner.RemoveContinuationRows(grid)
	return grid, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
