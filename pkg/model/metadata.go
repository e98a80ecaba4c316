// pkg/model/metadata.go
package model

// Artifact describes one persisted output file.
type Artifact struct {
	Name      string `json:"name"`       // File name (e.g. fact_parts.csv)
	Path      string `json:"path"`       // Path on disk
	Format    string `json:"format"`     // CSV, SQLite or Markdown
	SizeBytes int64  `json:"size_bytes"` // File size after writing
	RowCount  int    `json:"row_count"`  // Rows written (0 for non-tabular artifacts)
}

// TransformSummary carries headline statistics for one transform run.
type TransformSummary struct {
	TotalParts            int      `json:"total_parts"`             // Unique standardized part ids
	ActiveParts           int      `json:"active_parts"`            // plant_item_status records classified active
	InactiveParts         int      `json:"inactive_parts"`          // Records classified discontinued
	NewParts              int      `json:"new_parts"`               // Records classified not_in_project
	DuplicateParts        int      `json:"duplicate_parts"`         // Records carrying the duplicate flag
	PlantsDetected        int      `json:"plants_detected"`         // Distinct project_plant values
	DuplicatesRemoved     int      `json:"duplicates_removed"`      // Source rows dropped by dedupe
	DateColumnsProcessed  []string `json:"date_columns_processed"`  // Roles fed into the calendar
	ProcessingTimeSeconds float64  `json:"processing_time_seconds"` // Wall clock for the whole run
}
