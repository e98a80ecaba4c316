package calendar

import (
	"testing"
	"time"

	"github.com/bomdash/bom-ingress/pkg/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuild_ContiguousCalendar(t *testing.T) {
	t.Parallel()

	series := []RoleSeries{
		{Role: "Approved Date", Dates: []time.Time{day(2024, 1, 10), day(2024, 3, 5)}},
		{Role: "PSW Date", Dates: []time.Time{day(2024, 2, 1)}},
	}

	dimDates, bridge := Build(series)

	// One row per day between the global min and max, inclusive.
	wantDays := int(day(2024, 3, 5).Sub(day(2024, 1, 10)).Hours()/24) + 1
	if dimDates.NumRows() != wantDays {
		t.Fatalf("dim_dates rows want=%d got=%d", wantDays, dimDates.NumRows())
	}

	first := dimDates.Cell(0, "Date").(time.Time)
	if !first.Equal(day(2024, 1, 10)) {
		t.Fatalf("first date want=2024-01-10 got=%v", first)
	}
	last := dimDates.Cell(dimDates.NumRows()-1, "Date").(time.Time)
	if !last.Equal(day(2024, 3, 5)) {
		t.Fatalf("last date want=2024-03-05 got=%v", last)
	}

	// No gaps: each row is exactly one day after the previous.
	dateIdx := dimDates.ColIndex("Date")
	for i := 1; i < dimDates.NumRows(); i++ {
		prev := dimDates.Rows[i-1][dateIdx].(time.Time)
		curr := dimDates.Rows[i][dateIdx].(time.Time)
		if !curr.Equal(prev.AddDate(0, 0, 1)) {
			t.Fatalf("gap at row %d: %v -> %v", i, prev, curr)
		}
	}

	if got := dimDates.Cell(0, "MonthName"); got != "Jan" {
		t.Fatalf("MonthName want=Jan got=%v", got)
	}
	if got := dimDates.Cell(0, "MonthYear"); got != "Jan 2024" {
		t.Fatalf("MonthYear want=Jan 2024 got=%v", got)
	}
	if got := dimDates.Cell(0, "MonthYearSort"); got != 2024*12+1 {
		t.Fatalf("MonthYearSort want=%d got=%v", 2024*12+1, got)
	}
	if got := dimDates.Cell(0, "Quarter"); got != "Q1" {
		t.Fatalf("Quarter want=Q1 got=%v", got)
	}

	if bridge.NumRows() != 3 {
		t.Fatalf("bridge rows want=3 got=%d", bridge.NumRows())
	}
	if got := model.CellString(bridge.Cell(0, "Role")); got != "Approved Date" {
		t.Fatalf("bridge role want=Approved Date got=%q", got)
	}
}

func TestBuild_BridgeDeduplicates(t *testing.T) {
	t.Parallel()

	d := day(2024, 5, 1)
	series := []RoleSeries{
		{Role: "Approved Date", Dates: []time.Time{d, d, d}},
		{Role: "PSW Date", Dates: []time.Time{d}},
	}

	dimDates, bridge := Build(series)

	if bridge.NumRows() != 2 {
		t.Fatalf("bridge must deduplicate (date, role) pairs, rows got=%d", bridge.NumRows())
	}
	if dimDates.NumRows() != 1 {
		t.Fatalf("single-day span should yield one calendar row, got=%d", dimDates.NumRows())
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	t.Parallel()

	dimDates, bridge := Build(nil)
	if dimDates.NumRows() != 0 || bridge.NumRows() != 0 {
		t.Fatalf("empty input must yield empty tables, got dim=%d bridge=%d",
			dimDates.NumRows(), bridge.NumRows())
	}
	if len(dimDates.Columns) != 8 {
		t.Fatalf("dim_dates columns want=8 got=%d", len(dimDates.Columns))
	}
}

func TestBuild_RolesWithoutDatesIgnored(t *testing.T) {
	t.Parallel()

	series := []RoleSeries{
		{Role: "Approved Date"},
		{Role: "PSW Date", Dates: []time.Time{day(2024, 7, 4)}},
	}

	_, bridge := Build(series)
	if bridge.NumRows() != 1 {
		t.Fatalf("bridge rows want=1 got=%d", bridge.NumRows())
	}
}
