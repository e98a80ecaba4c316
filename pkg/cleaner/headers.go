// pkg/cleaner/headers.go
package cleaner

import (
	"fmt"
	"strings"
)

// identifierPatterns are the known identifier-column names searched for
// when locating a buried header row (case-insensitive substring match).
var identifierPatterns = []string{"yazaki pn", "part number", "part_number", "id"}

// headerIndicators mark cells that look like header continuations rather
// than data.
var headerIndicators = []string{
	"(",
	")",
	"remarks",
	"status",
	"date",
	"details",
	"deviation",
	"under",
	"available",
	"promised",
	"ok/nok",
	"yes/no",
}

// RepairHeaders detects a header row buried below spurious leading rows.
// grid[0] is the current header; the first 10 body rows are scanned for a
// row that contains an identifier-column pattern and whose non-empty cells
// are at least 70% non-numeric. When found, that row becomes the new header
// (blank cells replaced by positional placeholders) and everything at or
// above it is dropped. Returns the repaired grid and whether a swap
// happened.
func RepairHeaders(grid [][]string) ([][]string, bool) {
	if len(grid) < 2 {
		return grid, false
	}

	body := grid[1:]
	headerRow := -1

	for i := 0; i < len(body) && i < 10; i++ {
		values := nonBlankLower(body[i])
		if len(values) == 0 {
			continue
		}

		matched := false
		for _, pattern := range identifierPatterns {
			for _, val := range values {
				if strings.Contains(val, pattern) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			continue
		}

		nonNumeric := 0
		for _, val := range values {
			if !looksNumeric(val) {
				nonNumeric++
			}
		}
		if float64(nonNumeric) > float64(len(values))*0.7 {
			headerRow = i
			break
		}
	}

	if headerRow < 0 {
		return grid, false
	}

	newHeader := make([]string, len(body[headerRow]))
	for i, cell := range body[headerRow] {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			newHeader[i] = trimmed
		} else {
			newHeader[i] = fmt.Sprintf("Column_%d", i)
		}
	}

	repaired := make([][]string, 0, len(body)-headerRow)
	repaired = append(repaired, newHeader)
	repaired = append(repaired, body[headerRow+1:]...)
	return repaired, true
}

// RemoveContinuationRows drops multi-row header continuations from the top
// of the data body: within the first 5 body rows, a row is a continuation
// when more than 30% of its non-empty cells contain a header-ish indicator
// token and fewer than 20% look like numeric part codes. Returns the
// cleaned grid and the number of dropped rows.
func RemoveContinuationRows(grid [][]string) ([][]string, int) {
	if len(grid) < 2 {
		return grid, 0
	}

	body := grid[1:]
	drop := make(map[int]bool)

	for i := 0; i < len(body) && i < 5; i++ {
		var values []string
		for _, cell := range body[i] {
			if trimmed := strings.TrimSpace(cell); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		if len(values) == 0 {
			continue
		}

		indicators := 0
		for _, val := range values {
			lower := strings.ToLower(val)
			for _, indicator := range headerIndicators {
				if strings.Contains(lower, indicator) {
					indicators++
					break
				}
			}
		}
		if float64(indicators)/float64(len(values)) <= 0.3 {
			continue
		}

		numericLike := 0
		for _, val := range values {
			if looksNumeric(val) && len(val) > 3 {
				numericLike++
			}
		}
		if float64(numericLike)/float64(len(values)) < 0.2 {
			drop[i] = true
		}
	}

	if len(drop) == 0 {
		return grid, 0
	}

	out := make([][]string, 0, len(grid)-len(drop))
	out = append(out, grid[0])
	for i, row := range body {
		if !drop[i] {
			out = append(out, row)
		}
	}
	return out, len(drop)
}

// CleanColumnNames trims header labels, replaces blanks with positional
// placeholders, and disambiguates repeated labels with a numeric suffix.
func CleanColumnNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, col := range header {
		name := strings.TrimSpace(col)
		if name == "" {
			name = fmt.Sprintf("Column_%d", i)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name]++
		out[i] = name
	}
	return out
}

func nonBlankLower(row []string) []string {
	var out []string
	for _, cell := range row {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}

// looksNumeric reports whether a cell value is digits once separators are
// removed, the way raw part quantities and codes present themselves.
func looksNumeric(val string) bool {
	stripped := strings.NewReplacer(".", "", "-", "").Replace(val)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
