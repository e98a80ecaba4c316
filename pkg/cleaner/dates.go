// pkg/cleaner/dates.go
package cleaner

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bomdash/bom-ingress/pkg/model"
)

// dateLayouts are tried in order when parsing textual date encodings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-06",
}

// Spreadsheet serial date epoch. Serials below 60 fall into the fictitious
// 1900 leap-day zone and are not accepted.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	minSerial = 60
	maxSerial = 2958465 // 9999-12-31
)

var (
	dateNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`date`),
		regexp.MustCompile(`time`),
		regexp.MustCompile(`approved`),
		regexp.MustCompile(`promised`),
		regexp.MustCompile(`created`),
		regexp.MustCompile(`updated`),
		regexp.MustCompile(`modified`),
		regexp.MustCompile(`sop`),
		regexp.MustCompile(`milestone`),
	}

	dateExcludePatterns = []*regexp.Regexp{
		regexp.MustCompile(`supplier.*pn`),
		regexp.MustCompile(`part.*number`),
		regexp.MustCompile(`pn$`),
		regexp.MustCompile(`id$`),
		regexp.MustCompile(`code$`),
		regexp.MustCompile(`number$`),
	}
)

// ParseDate coerces a heterogeneous date encoding to a date normalized to
// midnight UTC. Accepts time.Time values, textual encodings from the known
// layout list, and spreadsheet serial numbers. Returns ok=false instead of
// an error for anything unparseable.
func ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return normalizeDate(val), true
	case float64:
		return serialToDate(val)
	case int:
		return serialToDate(float64(val))
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return normalizeDate(parsed), true
			}
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return serialToDate(serial)
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func serialToDate(serial float64) (time.Time, bool) {
	if serial < minSerial || serial > maxSerial {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(serial)), true
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDateColumn parses the named column and adds the derived columns
// {col}_date, _year, _month, _day, _qtr and _week (ISO week) to the table.
// Unparseable cells yield nulls in every derived column. Returns the count
// of successfully parsed values.
func ParseDateColumn(t *model.Table, col string) int {
	idx := t.ColIndex(col)
	if idx < 0 {
		return 0
	}

	derived := []string{
		col + "_date",
		col + "_year",
		col + "_month",
		col + "_day",
		col + "_qtr",
		col + "_week",
	}
	for _, d := range derived {
		t.AddColumn(d, nil)
	}

	parsed := 0
	for i := range t.Rows {
		date, ok := ParseDate(t.Rows[i][idx])
		if !ok {
			continue
		}
		parsed++

		_, week := date.ISOWeek()
		t.SetCell(i, col+"_date", date)
		t.SetCell(i, col+"_year", date.Year())
		t.SetCell(i, col+"_month", int(date.Month()))
		t.SetCell(i, col+"_day", date.Day())
		t.SetCell(i, col+"_qtr", Quarter(date))
		t.SetCell(i, col+"_week", week)
	}
	return parsed
}

// Quarter returns the calendar quarter (1-4) of a date.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// DetectDateColumns auto-detects date-bearing columns. A column qualifies
// when its lowercased name matches a date-ish token, does not match any
// identifier-like exclusion pattern, and more than half of a sample of up
// to 10 non-blank values parses as a date.
func DetectDateColumns(t *model.Table) []string {
	var out []string

	for idx, col := range t.Columns {
		lower := strings.ToLower(col)

		excluded := false
		for _, p := range dateExcludePatterns {
			if p.MatchString(lower) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		named := false
		for _, p := range dateNamePatterns {
			if p.MatchString(lower) {
				named = true
				break
			}
		}
		if !named {
			continue
		}

		sampled, valid := 0, 0
		for _, row := range t.Rows {
			if sampled >= 10 {
				break
			}
			if model.IsBlank(row[idx]) {
				continue
			}
			sampled++
			if _, ok := ParseDate(row[idx]); ok {
				valid++
			}
		}

		if sampled > 0 && float64(valid)/float64(sampled) > 0.5 {
			out = append(out, col)
		}
	}
	return out
}

// CollectDates parses every cell of the named column, dropping failures.
// Used to feed the calendar builder.
func CollectDates(t *model.Table, col string) []time.Time {
	idx := t.ColIndex(col)
	if idx < 0 {
		return nil
	}

	var dates []time.Time
	for _, row := range t.Rows {
		if d, ok := ParseDate(row[idx]); ok {
			dates = append(dates, d)
		}
	}
	return dates
}
