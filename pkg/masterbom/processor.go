// pkg/masterbom/processor.go
package masterbom

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/cleaner"
	"github.com/bomdash/bom-ingress/pkg/logging"
	"github.com/bomdash/bom-ingress/pkg/model"
)

// Column names introduced by the processor.
const (
	ColPartIDStd = "part_id_std"
	ColPartIDRaw = "part_id_raw"
)

// preferredDateColumns are processed when present; auto-detection is the
// fallback when none of them exist.
var preferredDateColumns = []string{"Approved Date", "PSW Date", "FAR Date"}

// textColumns is the allow-list for text standardization.
var textColumns = []string{
	"Supplier Name",
	"Original Supplier Name",
	"Item Description",
	"Part Specification",
}

// Options control one MasterBOM processing run.
type Options struct {
	IDColumn            string   // Identifier column name (case-insensitive match)
	DateColumns         []string // Explicitly requested date columns
	ExcludedDateColumns []string // Columns never treated as dates
}

// Result bundles the three derived tables plus run statistics.
type Result struct {
	MasterBOMClean  *model.Table
	PlantItemStatus *model.Table
	FactParts       *model.Table

	ProjectColumns       []string
	ProcessedDateColumns []string
	DuplicatesRemoved    int
}

// Processor runs the MasterBOM business rules as a strictly sequential
// pipeline: header repair, column cleaning, column identification, id
// cleaning, date processing, text standardization, then the three output
// builds. It owns a private working copy of the input for the duration of
// Process and is not safe for concurrent reuse.
type Processor struct {
	collector *logging.Collector
	opts      Options

	table          *model.Table
	idColumn       string
	projectColumns []string
}

// NewProcessor creates a processor bound to a message collector.
func NewProcessor(collector *logging.Collector, opts Options) *Processor {
	if opts.IDColumn == "" {
		opts.IDColumn = "YAZAKI PN"
	}
	return &Processor{collector: collector, opts: opts}
}

// Process transforms a raw MasterBOM grid (header row + data rows) into the
// clean master table, the long plant-item-status table and the per-part
// fact table. Structural fallbacks (missing id or description column) are
// logged and recovered; only a non-tabular input is an error.
func (p *Processor) Process(grid [][]string) (*Result, error) {
	if len(grid) == 0 {
		return nil, errors.New("masterbom input has no header row")
	}

	p.collector.Info("Starting MasterBOM processing",
		zap.Int("input_rows", len(grid)-1),
		zap.Int("input_cols", len(grid[0])))

	repaired, swapped := cleaner.RepairHeaders(grid)
	if swapped {
		p.collector.Info("Repaired multi-row headers",
			zap.Int("rows_dropped", len(grid)-len(repaired)))
	}

	p.table = cleaner.TableFromGrid("masterbom_clean", repaired)
	p.identifyColumns()
	p.cleanIDColumn()
	dateCols := p.processDateColumns()
	p.standardizeTextColumns()

	plantItemStatus, duplicatesRemoved := p.buildPlantItemStatus()
	factParts := p.buildFactParts()
	masterbomClean := p.finalize()

	p.collector.Info("MasterBOM processing complete",
		zap.Int("masterbom_rows", masterbomClean.NumRows()),
		zap.Int("plant_status_rows", plantItemStatus.NumRows()),
		zap.Int("fact_parts_rows", factParts.NumRows()))

	return &Result{
		MasterBOMClean:       masterbomClean,
		PlantItemStatus:      plantItemStatus,
		FactParts:            factParts,
		ProjectColumns:       p.projectColumns,
		ProcessedDateColumns: dateCols,
		DuplicatesRemoved:    duplicatesRemoved,
	}, nil
}

// identifyColumns locates the identifier column (case-insensitive exact
// match, first column as fallback) and the project columns: everything
// strictly between the identifier and the item-description column.
func (p *Processor) identifyColumns() {
	columns := p.table.Columns

	p.idColumn = ""
	for _, col := range columns {
		if strings.EqualFold(strings.TrimSpace(col), p.opts.IDColumn) {
			p.idColumn = col
			break
		}
	}
	if p.idColumn == "" {
		p.collector.Warn("ID column not found, using first column",
			zap.String("requested", p.opts.IDColumn),
			zap.String("fallback", columns[0]))
		p.idColumn = columns[0]
	}

	idIdx := p.table.ColIndex(p.idColumn)
	descIdx := -1
	for i := idIdx + 1; i < len(columns); i++ {
		lower := strings.ToLower(columns[i])
		if strings.Contains(lower, "item") && strings.Contains(lower, "desc") {
			descIdx = i
			break
		}
	}
	if descIdx < 0 {
		p.collector.Warn("Description column not found, assuming all remaining columns are projects")
		descIdx = len(columns)
	}

	p.projectColumns = append([]string(nil), columns[idIdx+1:descIdx]...)

	p.collector.Info("Identified columns",
		zap.String("id_column", p.idColumn),
		zap.Int("project_columns", len(p.projectColumns)))
}

// cleanIDColumn appends part_id_raw (stringified original) and part_id_std
// (standardized) to the working table.
func (p *Processor) cleanIDColumn() {
	idIdx := p.table.ColIndex(p.idColumn)

	p.table.AddColumn(ColPartIDRaw, nil)
	p.table.AddColumn(ColPartIDStd, nil)

	valid := 0
	for i := range p.table.Rows {
		raw := p.table.Rows[i][idIdx]
		std := cleaner.CleanID(raw)
		p.table.SetCell(i, ColPartIDRaw, model.CellString(raw))
		p.table.SetCell(i, ColPartIDStd, std)
		if std != "" {
			valid++
		}
	}

	p.collector.Info("Cleaned ID column",
		zap.Int("total_parts", p.table.NumRows()),
		zap.Int("valid_ids", valid),
		zap.Int("empty_ids", p.table.NumRows()-valid))
}

// processDateColumns parses the preferred date columns when present, the
// auto-detected set otherwise, plus any explicitly requested extras, and
// adds the derived fields for each. Returns the processed column names.
func (p *Processor) processDateColumns() []string {
	var candidates []string
	for _, col := range preferredDateColumns {
		if p.table.HasColumn(col) {
			candidates = append(candidates, col)
		}
	}
	if len(candidates) == 0 {
		candidates = cleaner.DetectDateColumns(p.table)
	}
	for _, col := range p.opts.DateColumns {
		if p.table.HasColumn(col) && !contains(candidates, col) {
			candidates = append(candidates, col)
		}
	}

	excluded := make(map[string]bool, len(p.opts.ExcludedDateColumns))
	for _, col := range p.opts.ExcludedDateColumns {
		excluded[col] = true
	}

	var processed []string
	for _, col := range candidates {
		if excluded[col] {
			continue
		}
		cleaner.ParseDateColumn(p.table, col)
		processed = append(processed, col)
	}

	p.collector.Info("Processed date columns",
		zap.Int("requested", len(candidates)),
		zap.Strings("columns", processed))
	return processed
}

func (p *Processor) standardizeTextColumns() {
	standardized := 0
	for _, col := range textColumns {
		if p.table.HasColumn(col) {
			cleaner.StandardizeColumn(p.table, col)
			standardized++
		}
	}
	p.collector.Info("Standardized text columns", zap.Int("count", standardized))
}

// finalize flags (never removes) fully-duplicated rows in the working table.
func (p *Processor) finalize() *model.Table {
	flagged, count := cleaner.FlagDuplicateRows(p.table, nil)
	if count > 0 {
		p.collector.Info("Flagged duplicate rows in clean master",
			zap.Int("count", count),
			zap.Int("total_rows", flagged.NumRows()))
	} else {
		p.collector.Info("No duplicate rows found in clean master")
	}
	flagged.Name = "masterbom_clean"
	return flagged
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
