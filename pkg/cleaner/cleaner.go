// pkg/cleaner/cleaner.go
package cleaner

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"github.com/bomdash/bom-ingress/pkg/model"
)

var (
	idStripPattern    = regexp.MustCompile(`[^A-Za-z0-9\s\-_]`)
	idCollapsePattern = regexp.MustCompile(`[\s_]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// DuplicateFlagColumn is the boolean column added by FlagDuplicateRows.
const DuplicateFlagColumn = "is_duplicate_entry"

// CleanID standardizes a part identifier. It never fails: null or blank
// input yields the empty string. The result contains only uppercase
// alphanumerics, single spaces and hyphens, and the function is idempotent.
func CleanID(v any) string {
	if model.IsBlank(v) {
		return ""
	}

	s := strings.TrimSpace(model.CellString(v))
	s = idStripPattern.ReplaceAllString(s, "")
	s = idCollapsePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(strings.ToUpper(s))
}

// StandardizeValue normalizes one text cell: literal "\n" escapes and runs
// of whitespace collapse to single spaces, and the result is title-cased.
// The second return value reports whether the value was changed; blank
// input returns ok=false and must be left unmodified by the caller.
func StandardizeValue(v any) (string, bool) {
	if model.IsBlank(v) {
		return "", false
	}

	text := strings.TrimSpace(model.CellString(v))
	if text == "" {
		return "", false
	}

	text = strings.ReplaceAll(text, `\n`, "\n")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return titleCase(text), true
}

// StandardizeColumn applies StandardizeValue to every cell of the named
// column in place. Values that cannot be standardized are left untouched;
// a single bad cell never aborts the column.
func StandardizeColumn(t *model.Table, col string) int {
	idx := t.ColIndex(col)
	if idx < 0 {
		return 0
	}

	changed := 0
	for i := range t.Rows {
		if s, ok := StandardizeValue(t.Rows[i][idx]); ok {
			t.Rows[i][idx] = s
			changed++
		}
	}
	return changed
}

// titleCase upper-cases the first letter of every alphabetic run and
// lower-cases the rest, leaving non-letters unchanged.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// RowHash computes a deterministic MD5 content hash per row over the given
// column subset (all columns when nil). Used by duplicate-detection tooling.
func RowHash(t *model.Table, columns []string) []string {
	if columns == nil {
		columns = t.Columns
	}

	indices := make([]int, 0, len(columns))
	for _, c := range columns {
		if idx := t.ColIndex(c); idx >= 0 {
			indices = append(indices, idx)
		}
	}

	hashes := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		parts := make([]string, len(indices))
		for j, idx := range indices {
			parts[j] = model.CellString(row[idx])
		}
		sum := md5.Sum([]byte(strings.Join(parts, "|")))
		hashes[i] = hex.EncodeToString(sum[:])
	}
	return hashes
}

// FlagDuplicateRows returns a copy of the table with a boolean
// is_duplicate_entry column: true for every row after the first occurrence
// of a subset-of-columns value combination. Rows are never removed. The
// second return value is the number of flagged rows.
func FlagDuplicateRows(t *model.Table, subset []string) (*model.Table, int) {
	out := t.Copy()
	out.AddColumn(DuplicateFlagColumn, false)

	flagIdx := out.ColIndex(DuplicateFlagColumn)
	seen := make(map[string]bool, len(out.Rows))
	count := 0

	for i := range out.Rows {
		key := duplicateKey(t, i, subset)
		if seen[key] {
			out.Rows[i][flagIdx] = true
			count++
		} else {
			seen[key] = true
		}
	}
	return out, count
}

// RemoveDuplicateRows drops every row after the first occurrence of a
// subset-of-columns value combination, returning the cleaned table and the
// number of removed rows.
func RemoveDuplicateRows(t *model.Table, subset []string) (*model.Table, int) {
	out := model.NewTable(t.Name, t.Columns)
	seen := make(map[string]bool, len(t.Rows))
	removed := 0

	for i, row := range t.Rows {
		key := duplicateKey(t, i, subset)
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		r := make([]any, len(row))
		copy(r, row)
		out.Rows = append(out.Rows, r)
	}
	return out, removed
}

func duplicateKey(t *model.Table, row int, subset []string) string {
	cols := subset
	if cols == nil {
		cols = t.Columns
	}

	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		if idx := t.ColIndex(c); idx >= 0 {
			parts = append(parts, model.CellString(t.Rows[row][idx]))
		}
	}
	return strings.Join(parts, "\x1f")
}
