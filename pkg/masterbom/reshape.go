// pkg/masterbom/reshape.go
package masterbom

import (
	"strings"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/model"
)

// moroccoPatterns identify locale-priority suppliers during source
// duplicate resolution (case-insensitive substring match).
var moroccoPatterns = []string{"MA", "MAROC", "MOROCCO"}

// buildPlantItemStatus reshapes the wide part-by-plant matrix into the long
// plant_item_status table: one row per surviving part and project column,
// with a three-state classification and per-part status counts. Returns the
// table and the number of source rows removed by duplicate resolution.
func (p *Processor) buildPlantItemStatus() (*model.Table, int) {
	if len(p.projectColumns) == 0 {
		p.collector.Warn("No project columns found for normalization")
		return model.NewTable("plant_item_status", nil), 0
	}

	deduped, removed := p.resolveSourceDuplicates()
	melted := p.melt(deduped)
	melted = p.resolveMeltedDuplicates(melted)
	p.attachPlantCounts(melted)

	finalColumns := []string{
		ColPartIDStd,
		ColPartIDRaw,
		p.idColumn,
		"project_plant",
		"raw_status",
		"status_class",
		"is_duplicate",
		"is_new",
		"notes",
		"n_active",
		"n_inactive",
		"n_new",
		"n_duplicate",
	}
	out := melted.Select(finalColumns)
	out.Name = "plant_item_status"

	p.collector.Info("Plant-item-status processing complete",
		zap.Int("total_records", out.NumRows()),
		zap.Int("project_columns", len(p.projectColumns)))

	return out, removed
}

// resolveSourceDuplicates keeps exactly one row per standardized part id,
// preferring locale-priority suppliers. Survivors stay at the position of
// the group's first occurrence, keeping the result deterministic for a
// given input order.
func (p *Processor) resolveSourceDuplicates() (*model.Table, int) {
	stdIdx := p.table.ColIndex(ColPartIDStd)
	supplierIdx := p.table.ColIndex("Supplier Name")

	groups := make(map[string][]int, len(p.table.Rows))
	for i, row := range p.table.Rows {
		key := model.CellString(row[stdIdx])
		groups[key] = append(groups[key], i)
	}

	duplicateGroups := 0
	for _, indices := range groups {
		if len(indices) > 1 {
			duplicateGroups++
		}
	}
	if duplicateGroups == 0 {
		p.collector.Info("No duplicates found in source data")
		return p.table, 0
	}

	p.collector.Info("Processing duplicates in source data",
		zap.Int("duplicated_parts", duplicateGroups))

	keep := make(map[int]bool, len(groups))
	for _, indices := range groups {
		keep[p.pickSurvivor(indices, supplierIdx)] = true
	}

	out := model.NewTable(p.table.Name, p.table.Columns)
	for i, row := range p.table.Rows {
		if keep[i] {
			out.Rows = append(out.Rows, row)
		}
	}

	removed := p.table.NumRows() - out.NumRows()
	p.collector.Info("Source duplicate resolution complete",
		zap.Int("original_records", p.table.NumRows()),
		zap.Int("final_records", out.NumRows()),
		zap.Int("duplicates_removed", removed))
	return out, removed
}

// pickSurvivor applies supplier-locale priority to one duplicate group:
// exactly one locale match wins, multiple matches fall back to the first
// match, no matches fall back to the first row of the group.
func (p *Processor) pickSurvivor(indices []int, supplierIdx int) int {
	if len(indices) == 1 {
		return indices[0]
	}
	if supplierIdx < 0 {
		return indices[0]
	}

	var matches []int
	for _, i := range indices {
		supplier := strings.ToUpper(model.CellString(p.table.Rows[i][supplierIdx]))
		for _, pattern := range moroccoPatterns {
			if strings.Contains(supplier, pattern) {
				matches = append(matches, i)
				break
			}
		}
	}

	if len(matches) > 0 {
		return matches[0]
	}
	return indices[0]
}

// melt unpivots the project columns into long (part, project_plant,
// raw_status) rows, carrying the id columns plus Supplier Name and FAR
// Status when present, and classifies every status token.
func (p *Processor) melt(src *model.Table) *model.Table {
	idVars := []string{ColPartIDStd, ColPartIDRaw, p.idColumn}
	for _, col := range []string{"Supplier Name", "FAR Status"} {
		if src.HasColumn(col) {
			idVars = append(idVars, col)
		}
	}

	columns := append(append([]string(nil), idVars...),
		"project_plant", "raw_status", "status_class", "is_duplicate", "is_new", "notes")
	out := model.NewTable("plant_item_status", columns)

	idIndices := make([]int, len(idVars))
	for i, col := range idVars {
		idIndices[i] = src.ColIndex(col)
	}

	for _, plant := range p.projectColumns {
		plantIdx := src.ColIndex(plant)
		for _, row := range src.Rows {
			cells := make([]any, len(columns))
			for i, idx := range idIndices {
				cells[i] = row[idx]
			}

			rawStatus := row[plantIdx]
			class := ClassifyStatus(rawStatus)

			base := len(idVars)
			cells[base] = plant
			cells[base+1] = rawStatus
			cells[base+2] = class.String()
			cells[base+3] = false
			cells[base+4] = class == model.StatusNotInProject
			cells[base+5] = nil
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

// ClassifyStatus maps a raw status token to its class. Total function:
// every input lands in exactly one of the three classes.
func ClassifyStatus(v any) model.StatusClass {
	raw := strings.ToUpper(strings.TrimSpace(model.CellString(v)))

	switch raw {
	case "X":
		return model.StatusActive
	case "D":
		return model.StatusDiscontinued
	case "", "NAN", "NONE", "NULL":
		return model.StatusNotInProject
	case "0":
		// Legacy duplicate marker
		return model.StatusNotInProject
	default:
		return model.StatusNotInProject
	}
}

// resolveMeltedDuplicates keeps the first record per (part_id_std,
// project_plant) pair. A data-integrity fallback: clean input never trips
// it because source duplicates are resolved before the melt.
func (p *Processor) resolveMeltedDuplicates(melted *model.Table) *model.Table {
	stdIdx := melted.ColIndex(ColPartIDStd)
	plantIdx := melted.ColIndex("project_plant")

	seen := make(map[string]bool, len(melted.Rows))
	out := model.NewTable(melted.Name, melted.Columns)
	for _, row := range melted.Rows {
		key := model.CellString(row[stdIdx]) + "\x1f" + model.CellString(row[plantIdx])
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, row)
	}

	if removed := melted.NumRows() - out.NumRows(); removed > 0 {
		p.collector.Info("Removed duplicates from melted data",
			zap.Int("duplicates_removed", removed))
	}
	return out
}

// attachPlantCounts adds, per standardized part id, the count of records in
// each status class. n_duplicate is always zero: duplicates are resolved
// before the reshape, never classified.
func (p *Processor) attachPlantCounts(melted *model.Table) {
	stdIdx := melted.ColIndex(ColPartIDStd)
	classIdx := melted.ColIndex("status_class")

	type counts struct{ active, inactive, newParts int }
	perPart := make(map[string]*counts, len(melted.Rows))
	for _, row := range melted.Rows {
		key := model.CellString(row[stdIdx])
		c := perPart[key]
		if c == nil {
			c = &counts{}
			perPart[key] = c
		}
		switch model.StatusClass(model.CellString(row[classIdx])) {
		case model.StatusActive:
			c.active++
		case model.StatusDiscontinued:
			c.inactive++
		case model.StatusNotInProject:
			c.newParts++
		}
	}

	melted.AddColumn("n_active", nil)
	melted.AddColumn("n_inactive", nil)
	melted.AddColumn("n_new", nil)
	melted.AddColumn("n_duplicate", nil)

	for i, row := range melted.Rows {
		c := perPart[model.CellString(row[stdIdx])]
		melted.SetCell(i, "n_active", c.active)
		melted.SetCell(i, "n_inactive", c.inactive)
		melted.SetCell(i, "n_new", c.newParts)
		melted.SetCell(i, "n_duplicate", 0)
	}
}
