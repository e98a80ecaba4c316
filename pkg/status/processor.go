// pkg/status/processor.go
package status

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/cleaner"
	"github.com/bomdash/bom-ingress/pkg/logging"
	"github.com/bomdash/bom-ingress/pkg/model"
)

// requiredColumns is the canonical output schema, in order. Missing inputs
// are synthesized as nulls so every output row carries all 17 fields.
var requiredColumns = []string{
	"plant_id",
	"oem",
	"sqe",
	"milestone_date",
	"total_parts",
	"psw_available",
	"psw_completion_pct",
	"drawing_available",
	"drawing_completion_pct",
	"imds_total",
	"imds_completion_pct",
	"m2_parts",
	"m2_parts_psw_ok",
	"ppap_completion_pct",
	"overall_completion_pct",
	"completion_status",
	"bom_file_date",
}

var (
	dateColumns = []string{"milestone_date", "bom_file_date"}

	countColumns = []string{
		"total_parts",
		"psw_available",
		"drawing_available",
		"imds_total",
		"m2_parts",
		"m2_parts_psw_ok",
	}

	pctColumns = []string{
		"psw_completion_pct",
		"drawing_completion_pct",
		"imds_completion_pct",
	}

	allPctColumns = []string{
		"psw_completion_pct",
		"drawing_completion_pct",
		"imds_completion_pct",
		"ppap_completion_pct",
		"overall_completion_pct",
	}

	headerSpaces = regexp.MustCompile(`\s+`)
)

// Result bundles the Status transformer outputs. The second table is a
// compatibility alias: same data under the name downstream reports expect.
type Result struct {
	StatusClean              *model.Table
	ProjectCompletionByPlant *model.Table
}

// Processor runs the project-status business rules: clean, map headers to
// the canonical schema, coerce types, compute derived completion ratios and
// finalize the 17-column output. Unlike the MasterBOM processor it fails
// hard: any structural error aborts the transform request.
type Processor struct {
	collector *logging.Collector
}

// NewProcessor creates a processor bound to a message collector.
func NewProcessor(collector *logging.Collector) *Processor {
	return &Processor{collector: collector}
}

// Process transforms a raw status grid (header row + data rows).
func (p *Processor) Process(grid [][]string) (*Result, error) {
	if len(grid) == 0 {
		return nil, errors.New("status input has no header row")
	}

	rules, err := loadMappingRules()
	if err != nil {
		return nil, err
	}

	p.collector.Info("Starting Status sheet processing",
		zap.Int("input_rows", len(grid)-1),
		zap.Int("input_cols", len(grid[0])))

	table := cleaner.TableFromGrid("status_clean", grid)
	table = p.cleanAndPrepare(table)
	table = p.mapHeaders(table, rules)
	p.coerceTypes(table)
	p.deriveFields(table)
	table = p.finalize(table)

	p.collector.Info("Status sheet processing complete",
		zap.Int("output_rows", table.NumRows()),
		zap.Int("output_cols", table.NumCols()))

	alias := table.Copy()
	alias.Name = "project_completion_by_plant"

	return &Result{
		StatusClean:              table,
		ProjectCompletionByPlant: alias,
	}, nil
}

// cleanAndPrepare drops placeholder and entirely blank columns, truncates
// the body at the first fully empty row, and removes remaining blank rows.
func (p *Processor) cleanAndPrepare(t *model.Table) *model.Table {
	var keep []string
	dropped := 0
	for idx, col := range t.Columns {
		if strings.HasPrefix(col, "Column_") {
			dropped++
			continue
		}
		blank := true
		for _, row := range t.Rows {
			if !model.IsBlank(row[idx]) {
				blank = false
				break
			}
		}
		if blank {
			dropped++
			continue
		}
		keep = append(keep, col)
	}
	if dropped > 0 {
		p.collector.Info("Dropped blank columns", zap.Int("count", dropped))
	}
	out := t.Select(keep)

	// Truncate at the first fully empty row, keeping at least some data.
	for i, row := range out.Rows {
		if i > 0 && rowBlank(row) {
			out.Rows = out.Rows[:i]
			p.collector.Info("Truncated at first fully empty row", zap.Int("row", i))
			break
		}
	}

	filtered := out.Rows[:0]
	for _, row := range out.Rows {
		if !rowBlank(row) {
			filtered = append(filtered, row)
		}
	}
	out.Rows = filtered

	p.collector.Info("Data cleaning complete",
		zap.Int("final_rows", out.NumRows()),
		zap.Int("final_cols", out.NumCols()))
	return out
}

// mapHeaders renames source columns to canonical names using the rule
// table: columns are visited in order, rules in order, first match wins and
// each target is claimed once. Duplicate names after mapping keep the first
// column only.
func (p *Processor) mapHeaders(t *model.Table, rules []mappingRule) *model.Table {
	used := make(map[string]bool, len(rules))
	mapped := 0

	renamed := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		normalized := headerSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(col)), " ")
		renamed[i] = col
		for _, rule := range rules {
			if used[rule.Target] || !rule.matches(normalized) {
				continue
			}
			renamed[i] = rule.Target
			used[rule.Target] = true
			mapped++
			break
		}
	}

	seen := make(map[string]bool, len(renamed))
	var keep []string
	out := model.NewTable(t.Name, nil)
	for i, name := range renamed {
		if seen[name] {
			continue
		}
		seen[name] = true
		keep = append(keep, t.Columns[i])
		out.Columns = append(out.Columns, name)
	}

	selected := t.Select(keep)
	out.Rows = selected.Rows

	p.collector.Info("Header normalization complete", zap.Int("mapped_columns", mapped))
	return out
}

// coerceTypes parses date, count and percentage columns in place.
func (p *Processor) coerceTypes(t *model.Table) {
	for _, col := range dateColumns {
		idx := t.ColIndex(col)
		if idx < 0 {
			continue
		}
		for i := range t.Rows {
			if date, ok := cleaner.ParseDate(t.Rows[i][idx]); ok {
				t.Rows[i][idx] = date
			} else {
				t.Rows[i][idx] = nil
			}
		}
	}

	for _, col := range countColumns {
		idx := t.ColIndex(col)
		if idx < 0 {
			continue
		}
		for i := range t.Rows {
			if n, ok := parseCount(t.Rows[i][idx]); ok {
				t.Rows[i][idx] = n
			} else {
				t.Rows[i][idx] = nil
			}
		}
	}

	for _, col := range pctColumns {
		idx := t.ColIndex(col)
		if idx < 0 {
			continue
		}
		for i := range t.Rows {
			if f, ok := ParsePercent(t.Rows[i][idx]); ok {
				t.Rows[i][idx] = f
			} else {
				t.Rows[i][idx] = nil
			}
		}
	}

	p.collector.Info("Type coercion complete")
}

// ParsePercent coerces a heterogeneous percentage encoding to a float in
// [0,1]. Comma decimal separators and "%" signs are accepted; values in
// (1,100] are treated as whole-number percentages; anything non-numeric
// returns ok=false.
func ParsePercent(v any) (float64, bool) {
	if model.IsBlank(v) {
		return 0, false
	}

	s := strings.TrimSpace(model.CellString(v))
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, "%", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	if f > 1 && f <= 100 {
		f /= 100
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return f, true
}

func parseCount(v any) (int, bool) {
	if model.IsBlank(v) {
		return 0, false
	}
	s := strings.TrimSpace(model.CellString(v))
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// deriveFields computes the ratio-based completion percentages, overwriting
// any parsed values when the underlying counts are available, plus the
// overall row mean.
func (p *Processor) deriveFields(t *model.Table) {
	ratio := func(numCol, target string) {
		if !t.HasColumn(numCol) || !t.HasColumn("total_parts") {
			return
		}
		t.AddColumn(target, nil)
		for i := range t.Rows {
			total, totalOK := t.Cell(i, "total_parts").(int)
			num, numOK := t.Cell(i, numCol).(int)
			if totalOK && total > 0 && numOK {
				t.SetCell(i, target, float64(num)/float64(total))
			}
		}
	}

	ratio("psw_available", "psw_completion_pct")
	ratio("drawing_available", "drawing_completion_pct")
	ratio("imds_total", "imds_completion_pct")

	t.AddColumn("ppap_completion_pct", nil)
	if t.HasColumn("m2_parts_psw_ok") && t.HasColumn("m2_parts") {
		for i := range t.Rows {
			m2, m2OK := t.Cell(i, "m2_parts").(int)
			ok, okOK := t.Cell(i, "m2_parts_psw_ok").(int)
			if m2OK && m2 > 0 && okOK {
				t.SetCell(i, "ppap_completion_pct", float64(ok)/float64(m2))
			}
		}
	}

	t.AddColumn("overall_completion_pct", nil)
	components := []string{
		"psw_completion_pct",
		"drawing_completion_pct",
		"imds_completion_pct",
		"ppap_completion_pct",
	}
	for i := range t.Rows {
		sum, n := 0.0, 0
		for _, col := range components {
			if f, ok := t.Cell(i, col).(float64); ok {
				sum += f
				n++
			}
		}
		if n > 0 {
			t.SetCell(i, "overall_completion_pct", sum/float64(n))
		}
	}

	p.collector.Info("Derived fields complete")
}

// finalize synthesizes any missing canonical columns as nulls, reorders to
// the canonical schema and forces percentage fields to float.
func (p *Processor) finalize(t *model.Table) *model.Table {
	for _, col := range requiredColumns {
		if !t.HasColumn(col) {
			t.AddColumn(col, nil)
		}
	}

	out := t.Select(requiredColumns)
	out.Name = "status_clean"

	for _, col := range allPctColumns {
		idx := out.ColIndex(col)
		for i := range out.Rows {
			switch v := out.Rows[i][idx].(type) {
			case int:
				out.Rows[i][idx] = float64(v)
			case float64, nil:
			default:
				out.Rows[i][idx] = nil
			}
		}
	}

	p.collector.Info("Output validation complete",
		zap.Int("final_columns", out.NumCols()))
	return out
}

func rowBlank(row []any) bool {
	for _, v := range row {
		if !model.IsBlank(v) {
			return false
		}
	}
	return true
}
