// pkg/cleaner/table.go
package cleaner

import (
	"strings"

	"github.com/bomdash/bom-ingress/pkg/model"
)

// TableFromGrid converts a raw string grid (header row + data rows) into a
// table. Column names are cleaned and disambiguated, blank cells become
// nulls, and short rows are padded to the header width.
func TableFromGrid(name string, grid [][]string) *model.Table {
	if len(grid) == 0 {
		return model.NewTable(name, nil)
	}

	t := model.NewTable(name, CleanColumnNames(grid[0]))
	for _, row := range grid[1:] {
		cells := make([]any, len(t.Columns))
		for i := range t.Columns {
			if i < len(row) {
				if trimmed := strings.TrimSpace(row[i]); trimmed != "" {
					cells[i] = row[i]
				}
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
