package cleaner

import (
	"testing"
	"time"

	"github.com/bomdash/bom-ingress/pkg/model"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"iso", "2024-05-03", "2024-05-03", true},
		{"us slash", "05/03/2024", "2024-05-03", true},
		{"short slash", "5/3/2024", "2024-05-03", true},
		{"dotted", "03.05.2024", "2024-05-03", true},
		{"timestamp", "2024-05-03 10:30:00", "2024-05-03", true},
		{"serial float", float64(45000), "2023-03-15", true},
		{"serial int", 45000, "2023-03-15", true},
		{"serial string", "45000", "2023-03-15", true},
		{"time value", time.Date(2024, 5, 3, 14, 0, 0, 0, time.UTC), "2024-05-03", true},
		{"serial below epoch", float64(59), "", false},
		{"serial overflow", float64(3000000), "", false},
		{"garbage", "not a date", "", false},
		{"nil", nil, "", false},
		{"blank", "   ", "", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseDate(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok want=%v got=%v", tc.ok, ok)
			}
			if !ok {
				return
			}
			if got.Format(model.DateLayout) != tc.want {
				t.Fatalf("want=%s got=%s", tc.want, got.Format(model.DateLayout))
			}
			if h, m, s := got.Clock(); h != 0 || m != 0 || s != 0 {
				t.Fatalf("date not normalized to midnight: %v", got)
			}
		})
	}
}

func TestParseDateColumn(t *testing.T) {
	t.Parallel()

	tbl := model.NewTable("x", []string{"Approved Date"})
	tbl.AppendRow([]any{"2024-01-15"})
	tbl.AppendRow([]any{"bogus"})
	tbl.AppendRow([]any{nil})

	parsed := ParseDateColumn(tbl, "Approved Date")
	if parsed != 1 {
		t.Fatalf("parsed want=1 got=%d", parsed)
	}

	for _, suffix := range []string{"_date", "_year", "_month", "_day", "_qtr", "_week"} {
		if !tbl.HasColumn("Approved Date" + suffix) {
			t.Fatalf("missing derived column %s", suffix)
		}
	}

	if got := tbl.Cell(0, "Approved Date_year"); got != 2024 {
		t.Fatalf("year want=2024 got=%v", got)
	}
	if got := tbl.Cell(0, "Approved Date_month"); got != 1 {
		t.Fatalf("month want=1 got=%v", got)
	}
	if got := tbl.Cell(0, "Approved Date_qtr"); got != 1 {
		t.Fatalf("qtr want=1 got=%v", got)
	}
	if got := tbl.Cell(0, "Approved Date_week"); got != 3 {
		t.Fatalf("ISO week want=3 got=%v", got)
	}
	if got := tbl.Cell(1, "Approved Date_date"); got != nil {
		t.Fatalf("unparseable cell should yield null, got=%v", got)
	}
}

func TestQuarter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		month time.Month
		want  int
	}{
		{time.January, 1}, {time.March, 1},
		{time.April, 2}, {time.June, 2},
		{time.July, 3}, {time.September, 3},
		{time.October, 4}, {time.December, 4},
	}
	for _, tc := range tests {
		d := time.Date(2024, tc.month, 15, 0, 0, 0, 0, time.UTC)
		if got := Quarter(d); got != tc.want {
			t.Fatalf("Quarter(%s) want=%d got=%d", tc.month, tc.want, got)
		}
	}
}

func TestDetectDateColumns(t *testing.T) {
	t.Parallel()

	tbl := model.NewTable("x", []string{"Approved Date", "Supplier PN", "Qty", "FAR Promised date"})
	tbl.AppendRow([]any{"2024-01-15", "2024-01-01", "5", "2024-02-01"})
	tbl.AppendRow([]any{"2024-02-20", "2024-01-02", "6", "not yet"})
	tbl.AppendRow([]any{"2024-03-25", "2024-01-03", "7", "2024-04-01"})

	got := DetectDateColumns(tbl)
	want := []string{"Approved Date", "FAR Promised date"}
	if len(got) != len(want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want=%v got=%v", want, got)
		}
	}
}

func TestCollectDates(t *testing.T) {
	t.Parallel()

	tbl := model.NewTable("x", []string{"d"})
	tbl.AppendRow([]any{"2024-01-15"})
	tbl.AppendRow([]any{"junk"})
	tbl.AppendRow([]any{float64(45000)})

	dates := CollectDates(tbl, "d")
	if len(dates) != 2 {
		t.Fatalf("dates want=2 got=%d", len(dates))
	}
	if CollectDates(tbl, "missing") != nil {
		t.Fatalf("missing column should yield nil")
	}
}
