// pkg/storage/dictionary.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/model"
)

// columnDescriptions documents well-known output columns for the generated
// data dictionary.
var columnDescriptions = map[string]map[string]string{
	"masterbom_clean": {
		"part_id_std":        "Standardized part ID (cleaned)",
		"part_id_raw":        "Original part ID from source",
		"Item Description":   "Part description",
		"Supplier Name":      "Primary supplier name",
		"PSW":                "Part Submission Warrant status",
		"FAR Status":         "First Article Report status",
		"PPAP Details":       "Production Part Approval Process details",
		"is_duplicate_entry": "Row repeats an earlier identical row",
	},
	"plant_item_status": {
		"part_id_std":   "Standardized part ID",
		"project_plant": "Project/plant identifier",
		"raw_status":    "Original status value (X/D/0/blank)",
		"status_class":  "Classified status (active/discontinued/not_in_project)",
		"is_duplicate":  "Whether part is marked as duplicate",
		"is_new":        "Whether part is new to project/plant",
		"n_active":      "Count of active plants for this part",
		"n_inactive":    "Count of inactive plants for this part",
	},
	"fact_parts": {
		"item_id":             "Standardized part ID (primary key)",
		"psw_ok":              "Whether PSW is available",
		"far_ok":              "Whether FAR status is OK",
		"imds_ok":             "Whether IMDS status is OK",
		"has_handling_manual": "Whether handling manual exists",
	},
	"status_clean": {
		"plant_id":               "Project/plant identifier",
		"oem":                    "Original Equipment Manufacturer",
		"total_parts":            "Total number of parts in project",
		"psw_completion_pct":     "Fraction of PSW available (0-1)",
		"drawing_completion_pct": "Fraction of drawings available (0-1)",
		"overall_completion_pct": "Mean of available completion fractions",
	},
	"dim_dates": {
		"Date":    "Calendar date",
		"Year":    "Year component",
		"Month":   "Month component (1-12)",
		"Quarter": "Quarter label (Q1-Q4)",
		"Week":    "ISO week number",
	},
	"date_role_bridge": {
		"Date": "Observed date value",
		"Role": "Source column the date was extracted from",
	},
}

// WriteDataDictionary generates a markdown file describing every non-empty
// table and its columns.
func (w *Writer) WriteDataDictionary(tables []*model.Table) (model.Artifact, error) {
	path := filepath.Join(w.dir, "data_dictionary.md")

	var b strings.Builder
	b.WriteString("# Data Dictionary\n\n")
	b.WriteString("Generated data dictionary for ETL processed tables.\n\n")

	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}

		fmt.Fprintf(&b, "## %s\n\n", t.Name)
		fmt.Fprintf(&b, "**Rows:** %d\n", t.NumRows())
		fmt.Fprintf(&b, "**Columns:** %d\n\n", t.NumCols())

		b.WriteString("| Column | Type | Description |\n")
		b.WriteString("|--------|------|-------------|\n")
		for i, col := range t.Columns {
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				col, cellTypeName(t, i), describeColumn(t.Name, col))
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return model.Artifact{}, fmt.Errorf("failed to write data dictionary: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("failed to stat data dictionary: %w", err)
	}

	w.logger.Info("Created data dictionary", zap.String("path", path))

	return model.Artifact{
		Name:      "data_dictionary.md",
		Path:      path,
		Format:    "Markdown",
		SizeBytes: info.Size(),
	}, nil
}

func describeColumn(table, column string) string {
	if desc, ok := columnDescriptions[table][column]; ok {
		return desc
	}
	return "Data column"
}

// cellTypeName reports the type of the first non-null cell in a column.
func cellTypeName(t *model.Table, col int) string {
	for _, row := range t.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case string:
			return "text"
		case int, int64:
			return "integer"
		case float64:
			return "float"
		case bool:
			return "boolean"
		case time.Time:
			return "date"
		default:
			return "text"
		}
	}
	return "text"
}
