package masterbom

import (
	"testing"
	"time"

	"github.com/bomdash/bom-ingress/pkg/logging"
	"github.com/bomdash/bom-ingress/pkg/model"
)

func newTestProcessor(opts Options) *Processor {
	return NewProcessor(logging.NewCollector(nil), opts)
}

func TestClassifyStatus_Total(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want model.StatusClass
	}{
		{"X", model.StatusActive},
		{"x", model.StatusActive},
		{" X ", model.StatusActive},
		{"D", model.StatusDiscontinued},
		{"d", model.StatusDiscontinued},
		{"", model.StatusNotInProject},
		{nil, model.StatusNotInProject},
		{"NAN", model.StatusNotInProject},
		{"none", model.StatusNotInProject},
		{"NULL", model.StatusNotInProject},
		{"0", model.StatusNotInProject},
		{0, model.StatusNotInProject},
		{"anything else", model.StatusNotInProject},
	}
	for _, tc := range tests {
		if got := ClassifyStatus(tc.in); got != tc.want {
			t.Fatalf("ClassifyStatus(%v) want=%s got=%s", tc.in, tc.want, got)
		}
	}
}

func TestProcess_ReshapeRowCount(t *testing.T) {
	t.Parallel()

	grid := [][]string{
		{"YAZAKI PN", "Plant A", "Plant B", "Item Description", "Supplier Name"},
		{"7009-6933", "X", "", "Harness", "Acme"},
		{"7009-6934", "D", "X", "Connector", "Beta"},
	}

	result, err := newTestProcessor(Options{}).Process(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.ProjectColumns; len(got) != 2 || got[0] != "Plant A" || got[1] != "Plant B" {
		t.Fatalf("project columns want=[Plant A Plant B] got=%v", got)
	}

	// One record per surviving part and project column.
	pis := result.PlantItemStatus
	if pis.NumRows() != 4 {
		t.Fatalf("plant_item_status rows want=4 got=%d", pis.NumRows())
	}

	// Plant-major ordering.
	type rec struct{ part, plant, class string }
	want := []rec{
		{"7009-6933", "Plant A", "active"},
		{"7009-6934", "Plant A", "discontinued"},
		{"7009-6933", "Plant B", "not_in_project"},
		{"7009-6934", "Plant B", "active"},
	}
	for i, w := range want {
		got := rec{
			model.CellString(pis.Cell(i, ColPartIDStd)),
			model.CellString(pis.Cell(i, "project_plant")),
			model.CellString(pis.Cell(i, "status_class")),
		}
		if got != w {
			t.Fatalf("row %d want=%+v got=%+v", i, w, got)
		}
	}

	// Blank status is a new part.
	if got := pis.Cell(2, "is_new"); got != true {
		t.Fatalf("blank status should flag is_new, got=%v", got)
	}
	if got := pis.Cell(0, "is_new"); got != false {
		t.Fatalf("active status should not flag is_new, got=%v", got)
	}

	// Per-part status counts.
	if got := pis.Cell(0, "n_active"); got != 1 {
		t.Fatalf("part 6933 n_active want=1 got=%v", got)
	}
	if got := pis.Cell(0, "n_new"); got != 1 {
		t.Fatalf("part 6933 n_new want=1 got=%v", got)
	}
	if got := pis.Cell(1, "n_inactive"); got != 1 {
		t.Fatalf("part 6934 n_inactive want=1 got=%v", got)
	}
	if got := pis.Cell(0, "n_duplicate"); got != 0 {
		t.Fatalf("n_duplicate is always zero, got=%v", got)
	}
}

func TestProcess_LocaleDuplicateResolution(t *testing.T) {
	t.Parallel()

	// Same standardized id, different suppliers: the locale match survives.
	grid := [][]string{
		{"YAZAKI PN", "Plant A", "Item Description", "Supplier Name"},
		{"7009 6933", "X", "Harness", "Acme France"},
		{"7009_6933", "D", "Harness", "Acme Maroc"},
	}

	result, err := newTestProcessor(Options{}).Process(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DuplicatesRemoved != 1 {
		t.Fatalf("duplicates removed want=1 got=%d", result.DuplicatesRemoved)
	}

	pis := result.PlantItemStatus
	if pis.NumRows() != 1 {
		t.Fatalf("rows want=1 got=%d", pis.NumRows())
	}
	if got := model.CellString(pis.Cell(0, "raw_status")); got != "D" {
		t.Fatalf("locale supplier row should survive, raw_status want=D got=%q", got)
	}

	// The clean master keeps every source row.
	if result.MasterBOMClean.NumRows() != 2 {
		t.Fatalf("clean master rows want=2 got=%d", result.MasterBOMClean.NumRows())
	}
}

func TestProcess_DuplicateResolutionNoLocaleMatch(t *testing.T) {
	t.Parallel()

	grid := [][]string{
		{"YAZAKI PN", "Plant A", "Item Description", "Supplier Name"},
		{"7009 6933", "X", "Harness", "Alpha"},
		{"7009_6933", "D", "Harness", "Beta"},
	}

	result, err := newTestProcessor(Options{}).Process(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pis := result.PlantItemStatus
	if got := model.CellString(pis.Cell(0, "raw_status")); got != "X" {
		t.Fatalf("first row should survive without a locale match, raw_status want=X got=%q", got)
	}
}

func TestProcess_FallbackIDColumn(t *testing.T) {
	t.Parallel()

	grid := [][]string{
		{"Part Code", "Plant A", "Item Description"},
		{"123-456", "X", "Widget"},
	}

	collector := logging.NewCollector(nil)
	result, err := NewProcessor(collector, Options{}).Process(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PlantItemStatus.NumRows() != 1 {
		t.Fatalf("rows want=1 got=%d", result.PlantItemStatus.NumRows())
	}

	warned := false
	for _, msg := range collector.Messages() {
		if msg.Level == "warning" {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("fallback to the first column should emit a warning")
	}
}

func TestProcess_EmptyGrid(t *testing.T) {
	t.Parallel()

	if _, err := newTestProcessor(Options{}).Process(nil); err == nil {
		t.Fatalf("expected an error for empty input")
	}
}

func TestProcess_FactAggregation(t *testing.T) {
	t.Parallel()

	grid := [][]string{
		{
			"YAZAKI PN", "Plant A", "Item Description", "Supplier Name",
			"PSW", "Handling Manual", "FAR Status", "IMDS STATUS (Yes, No, N/A)",
			"Approved Date", "Promised Date",
		},
		{"7009 6933", "X", "Harness", "Acme", "", "HM-1", "OK with deviation", "Yes", "2024-01-10", "2024-03-01"},
		{"7009_6933", "D", "", "Acme", "PSW-1", "", "NOK", "no", "2024-02-20", "2024-01-15"},
	}

	result, err := newTestProcessor(Options{}).Process(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fact := result.FactParts
	if fact.NumRows() != 1 {
		t.Fatalf("fact rows want=1 got=%d", fact.NumRows())
	}
	if got := model.CellString(fact.Cell(0, "item_id")); got != "7009 6933" {
		t.Fatalf("item_id want=7009 6933 got=%q", got)
	}

	// First non-null wins for categoricals.
	if got := model.CellString(fact.Cell(0, "Item Description")); got != "Harness" {
		t.Fatalf("description want=Harness got=%q", got)
	}
	if got := model.CellString(fact.Cell(0, "PSW")); got != "PSW-1" {
		t.Fatalf("PSW want=PSW-1 got=%q", got)
	}

	// Latest approved, earliest promised.
	latest, ok := fact.Cell(0, "latest_approved_date").(time.Time)
	if !ok || latest.Format(model.DateLayout) != "2024-02-20" {
		t.Fatalf("latest_approved_date want=2024-02-20 got=%v", fact.Cell(0, "latest_approved_date"))
	}
	earliest, ok := fact.Cell(0, "earliest_promised_date").(time.Time)
	if !ok || earliest.Format(model.DateLayout) != "2024-01-15" {
		t.Fatalf("earliest_promised_date want=2024-01-15 got=%v", fact.Cell(0, "earliest_promised_date"))
	}

	// Quality flags.
	if got := fact.Cell(0, "psw_ok"); got != true {
		t.Fatalf("psw_ok want=true got=%v", got)
	}
	if got := fact.Cell(0, "has_handling_manual"); got != true {
		t.Fatalf("has_handling_manual want=true got=%v", got)
	}
	if got := fact.Cell(0, "far_ok"); got != true {
		t.Fatalf("far_ok want=true got=%v", got)
	}
	if got := fact.Cell(0, "imds_ok"); got != true {
		t.Fatalf("imds_ok want=true got=%v", got)
	}
}

func TestProcess_FactPartsSortedByID(t *testing.T) {
	t.Parallel()

	grid := [][]string{
		{"YAZAKI PN", "Plant A", "Item Description"},
		{"ZZZ-1", "X", "Last"},
		{"AAA-1", "X", "First"},
	}

	result, err := newTestProcessor(Options{}).Process(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fact := result.FactParts
	if got := model.CellString(fact.Cell(0, "item_id")); got != "AAA-1" {
		t.Fatalf("fact rows must be sorted by id, first want=AAA-1 got=%q", got)
	}
}

func TestProcess_ExcludedDateColumns(t *testing.T) {
	t.Parallel()

	grid := [][]string{
		{"YAZAKI PN", "Plant A", "Item Description", "Approved Date"},
		{"7009-6933", "X", "Harness", "2024-01-10"},
	}

	result, err := newTestProcessor(Options{
		ExcludedDateColumns: []string{"Approved Date"},
	}).Process(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ProcessedDateColumns) != 0 {
		t.Fatalf("excluded column must not be processed, got=%v", result.ProcessedDateColumns)
	}
	if result.MasterBOMClean.HasColumn("Approved Date_date") {
		t.Fatalf("derived date columns must not exist for excluded columns")
	}
}
