// pkg/excel/profile.go
package excel

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// maxSampleValues caps the unique sample list per column.
const maxSampleValues = 10

// ColumnProfile is the quality summary of one column.
type ColumnProfile struct {
	Name           string   `json:"name"`
	Dtype          string   `json:"dtype"`
	NonNullCount   int      `json:"non_null_count"`
	NullCount      int      `json:"null_count"`
	NullPercentage float64  `json:"null_percentage"`
	UniqueCount    int      `json:"unique_count"`
	SampleValues   []string `json:"sample_values"`
}

// Profile is the quality summary of one sheet.
type Profile struct {
	SheetName     string          `json:"sheet_name"`
	TotalRows     int             `json:"total_rows"`
	TotalCols     int             `json:"total_cols"`
	DuplicateRows int             `json:"duplicate_rows"`
	Columns       []ColumnProfile `json:"columns"`
}

var profileDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
	regexp.MustCompile(`\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`),
}

var booleanTokens = map[string]bool{
	"true": true, "false": true,
	"yes": true, "no": true,
	"1": true, "0": true,
	"x": true, "d": true,
}

// ProfileSheet reads the named sheet and profiles every column.
func (r *Reader) ProfileSheet(name string) (*Profile, error) {
	grid, err := r.ReadSheet(name)
	if err != nil {
		return nil, err
	}
	return ProfileGrid(name, grid), nil
}

// ProfileGrid computes per-column null counts, unique counts, sample values
// and an inferred data type for a grid (header row + data rows), plus the
// number of duplicated data rows.
func ProfileGrid(name string, grid [][]string) *Profile {
	p := &Profile{SheetName: name}
	if len(grid) == 0 {
		return p
	}

	header := grid[0]
	body := grid[1:]
	p.TotalRows = len(body)
	p.TotalCols = len(header)

	for i, col := range header {
		p.Columns = append(p.Columns, profileColumn(col, body, i))
	}
	p.DuplicateRows = countDuplicateRows(header, body)
	return p
}

func profileColumn(name string, body [][]string, idx int) ColumnProfile {
	var values []string
	for _, row := range body {
		if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
			values = append(values, row[idx])
		}
	}

	nullCount := len(body) - len(values)
	nullPct := 0.0
	if len(body) > 0 {
		nullPct = math.Round(float64(nullCount)/float64(len(body))*10000) / 100
	}

	seen := make(map[string]bool, len(values))
	var samples []string
	unique := 0
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		unique++
		if len(samples) < maxSampleValues {
			samples = append(samples, v)
		}
	}

	return ColumnProfile{
		Name:           name,
		Dtype:          inferDtype(values),
		NonNullCount:   len(values),
		NullCount:      nullCount,
		NullPercentage: nullPct,
		UniqueCount:    unique,
		SampleValues:   samples,
	}
}

// inferDtype classifies a column from its non-null values: all-numeric
// columns are integer or numeric, otherwise the first value is checked
// against date shapes, then the whole value set against boolean tokens.
func inferDtype(values []string) string {
	if len(values) == 0 {
		return "empty"
	}

	numeric, integers := true, true
	for _, v := range values {
		s := strings.TrimSpace(v)
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			numeric = false
			break
		}
		if !digitsAfterSeparators(s) {
			integers = false
		}
	}
	if numeric {
		if integers {
			return "integer"
		}
		return "numeric"
	}

	first := strings.ToLower(strings.TrimSpace(values[0]))
	for _, p := range profileDatePatterns {
		if p.MatchString(first) {
			return "date"
		}
	}

	for _, v := range values {
		if !booleanTokens[strings.ToLower(strings.TrimSpace(v))] {
			return "text"
		}
	}
	return "boolean"
}

func digitsAfterSeparators(s string) bool {
	stripped := strings.NewReplacer(".", "", "-", "").Replace(s)
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

// countDuplicateRows counts rows repeating an earlier row, keyed over the
// columns that carry at least one non-blank value.
func countDuplicateRows(header []string, body [][]string) int {
	var cols []int
	for i := range header {
		for _, row := range body {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cols = append(cols, i)
				break
			}
		}
	}
	if len(cols) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(body))
	duplicates := 0
	for _, row := range body {
		parts := make([]string, len(cols))
		for j, idx := range cols {
			if idx < len(row) {
				parts[j] = row[idx]
			}
		}
		key := strings.Join(parts, "\x1f")
		if seen[key] {
			duplicates++
		} else {
			seen[key] = true
		}
	}
	return duplicates
}
