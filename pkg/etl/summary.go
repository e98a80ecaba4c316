// pkg/etl/summary.go
package etl

import (
	"time"

	"github.com/bomdash/bom-ingress/pkg/masterbom"
	"github.com/bomdash/bom-ingress/pkg/model"
)

// summarize derives headline statistics from the plant-item-status table.
func summarize(result *masterbom.Result, roles []string, start time.Time) model.TransformSummary {
	summary := model.TransformSummary{
		DuplicatesRemoved:     result.DuplicatesRemoved,
		DateColumnsProcessed:  roles,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}

	pis := result.PlantItemStatus
	if pis.IsEmpty() {
		return summary
	}

	stdIdx := pis.ColIndex(masterbom.ColPartIDStd)
	classIdx := pis.ColIndex("status_class")
	plantIdx := pis.ColIndex("project_plant")
	dupIdx := pis.ColIndex("is_duplicate")

	parts := make(map[string]bool)
	plants := make(map[string]bool)

	for _, row := range pis.Rows {
		parts[model.CellString(row[stdIdx])] = true
		plants[model.CellString(row[plantIdx])] = true

		switch model.StatusClass(model.CellString(row[classIdx])) {
		case model.StatusActive:
			summary.ActiveParts++
		case model.StatusDiscontinued:
			summary.InactiveParts++
		case model.StatusNotInProject:
			summary.NewParts++
		}
		if flagged, ok := row[dupIdx].(bool); ok && flagged {
			summary.DuplicateParts++
		}
	}

	summary.TotalParts = len(parts)
	summary.PlantsDetected = len(plants)
	return summary
}
