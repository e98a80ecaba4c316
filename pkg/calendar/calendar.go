// pkg/calendar/calendar.go
package calendar

import (
	"fmt"
	"time"

	"github.com/bomdash/bom-ingress/pkg/cleaner"
	"github.com/bomdash/bom-ingress/pkg/model"
)

// RoleSeries is one source column's parsed dates together with the role
// name linking them back to their origin.
type RoleSeries struct {
	Role  string
	Dates []time.Time
}

// Build creates the contiguous daily calendar dimension and the date-role
// bridge from all date columns gathered across both transformers. The
// calendar spans every day between the global minimum and maximum observed
// date with no gaps; the bridge records only (date, role) pairs actually
// observed, deduplicated. Empty input yields two empty tables.
func Build(series []RoleSeries) (*model.Table, *model.Table) {
	dimDates := model.NewTable("dim_dates", []string{
		"Date", "Year", "Month", "MonthName", "MonthYear", "MonthYearSort", "Quarter", "Week",
	})
	bridge := model.NewTable("date_role_bridge", []string{"Date", "Role"})

	var minDate, maxDate time.Time
	found := false

	type bridgeKey struct {
		date time.Time
		role string
	}
	seen := make(map[bridgeKey]bool)

	for _, s := range series {
		for _, d := range s.Dates {
			if !found || d.Before(minDate) {
				minDate = d
			}
			if !found || d.After(maxDate) {
				maxDate = d
			}
			found = true

			key := bridgeKey{date: d, role: s.Role}
			if !seen[key] {
				seen[key] = true
				bridge.AppendRow([]any{d, s.Role})
			}
		}
	}

	if !found {
		return dimDates, bridge
	}

	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		_, week := d.ISOWeek()
		dimDates.AppendRow([]any{
			d,
			d.Year(),
			int(d.Month()),
			d.Format("Jan"),
			d.Format("Jan 2006"),
			d.Year()*12 + int(d.Month()),
			fmt.Sprintf("Q%d", cleaner.Quarter(d)),
			week,
		})
	}

	return dimDates, bridge
}
