// pkg/masterbom/fact.go
package masterbom

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/cleaner"
	"github.com/bomdash/bom-ingress/pkg/model"
)

type aggKind int

const (
	aggFirst aggKind = iota // first non-null value in group order
	aggMax                  // latest date, nulls skipped
	aggMin                  // earliest date, nulls skipped
)

type aggRule struct {
	column string
	kind   aggKind
}

// factAggRules define, in output order, how each source column collapses to
// one value per part. Only rules whose column exists are applied.
var factAggRules = []aggRule{
	{"part_id_raw", aggFirst},
	{"Item Description", aggFirst},
	{"Supplier Name", aggFirst},
	{"Supplier PN", aggFirst},
	{"PSW", aggFirst},
	{"PSW Type", aggFirst},
	{"PSW Sub Type", aggFirst},
	{"YPN Status", aggFirst},
	{"Handling Manual", aggFirst},
	{"IMDS STATUS (Yes, No, N/A)", aggFirst},
	{"FAR Status", aggFirst},
	{"PPAP Details", aggFirst},
	{"Approved Date_date", aggMax},
	{"PSW Date_date", aggFirst},
	{"FAR Date_date", aggMax},
	{"Promised Date_date", aggMin},
	{"FAR Promised date_date", aggMin},
}

// factRenames map aggregated column names to their fact-table names.
var factRenames = map[string]string{
	ColPartIDStd:             "item_id",
	"Approved Date_date":     "latest_approved_date",
	"PSW Date_date":          "psw_date",
	"FAR Date_date":          "far_date",
	"Promised Date_date":     "earliest_promised_date",
	"FAR Promised date_date": "earliest_far_promised_date",
}

// buildFactParts collapses the working table to one row per standardized
// part id with first/max/min aggregation and derived quality flags.
func (p *Processor) buildFactParts() *model.Table {
	p.preparePromisedDates()

	rules := make([]aggRule, 0, len(factAggRules))
	for _, rule := range factAggRules {
		if p.table.HasColumn(rule.column) {
			rules = append(rules, rule)
		}
	}

	stdIdx := p.table.ColIndex(ColPartIDStd)
	groups := make(map[string][]int)
	var keys []string
	for i, row := range p.table.Rows {
		key := model.CellString(row[stdIdx])
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], i)
	}
	sort.Strings(keys)

	columns := make([]string, 0, len(rules)+1)
	columns = append(columns, ColPartIDStd)
	for _, rule := range rules {
		columns = append(columns, rule.column)
	}

	fact := model.NewTable("fact_parts", columns)
	for _, key := range keys {
		indices := groups[key]
		cells := make([]any, len(columns))
		cells[0] = key
		for j, rule := range rules {
			cells[j+1] = p.aggregate(indices, rule)
		}
		fact.Rows = append(fact.Rows, cells)
	}

	for from, to := range factRenames {
		fact.RenameColumn(from, to)
	}
	p.deriveFactFlags(fact)

	p.collector.Info("Created fact_parts table",
		zap.Int("total_parts", fact.NumRows()))
	return fact
}

// preparePromisedDates parses the promised-date columns on demand: they are
// aggregation inputs but not part of the default derived-date set.
func (p *Processor) preparePromisedDates() {
	for _, col := range []string{"Promised Date", "FAR Promised date"} {
		if p.table.HasColumn(col) && !p.table.HasColumn(col+"_date") {
			cleaner.ParseDateColumn(p.table, col)
			p.collector.Info("Processed additional date column",
				zap.String("column", col))
		}
	}
}

func (p *Processor) aggregate(indices []int, rule aggRule) any {
	colIdx := p.table.ColIndex(rule.column)

	switch rule.kind {
	case aggFirst:
		for _, i := range indices {
			if v := p.table.Rows[i][colIdx]; v != nil {
				return v
			}
		}
		return nil
	case aggMax, aggMin:
		var best any
		for _, i := range indices {
			date, ok := p.table.Rows[i][colIdx].(time.Time)
			if !ok {
				continue
			}
			if best == nil {
				best = date
				continue
			}
			current := best.(time.Time)
			if (rule.kind == aggMax && date.After(current)) ||
				(rule.kind == aggMin && date.Before(current)) {
				best = date
			}
		}
		return best
	}
	return nil
}

// deriveFactFlags appends the quality booleans: psw_ok (PSW present and
// non-empty), has_handling_manual, far_ok (FAR Status contains OK) and
// imds_ok (IMDS status contains Yes).
func (p *Processor) deriveFactFlags(fact *model.Table) {
	if idx := fact.ColIndex("PSW"); idx >= 0 {
		fact.AddColumn("psw_ok", nil)
		for i, row := range fact.Rows {
			fact.SetCell(i, "psw_ok", !model.IsBlank(row[idx]))
		}
	}
	if idx := fact.ColIndex("Handling Manual"); idx >= 0 {
		fact.AddColumn("has_handling_manual", nil)
		for i, row := range fact.Rows {
			fact.SetCell(i, "has_handling_manual", row[idx] != nil)
		}
	}
	if idx := fact.ColIndex("FAR Status"); idx >= 0 {
		fact.AddColumn("far_ok", nil)
		for i, row := range fact.Rows {
			fact.SetCell(i, "far_ok", containsFold(row[idx], "OK"))
		}
	}
	if idx := fact.ColIndex("IMDS STATUS (Yes, No, N/A)"); idx >= 0 {
		fact.AddColumn("imds_ok", nil)
		for i, row := range fact.Rows {
			fact.SetCell(i, "imds_ok", containsFold(row[idx], "Yes"))
		}
	}
}

func containsFold(v any, substr string) bool {
	if v == nil {
		return false
	}
	return strings.Contains(
		strings.ToUpper(model.CellString(v)),
		strings.ToUpper(substr))
}
