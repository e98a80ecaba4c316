// pkg/storage/csv.go
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/model"
)

// writeCSV saves one table as <dir>/<name>.csv. Dates render as
// YYYY-MM-DD, nulls as empty cells.
func (w *Writer) writeCSV(t *model.Table) (model.Artifact, error) {
	path := filepath.Join(w.dir, t.Name+".csv")

	f, err := os.Create(path)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(t.Columns); err != nil {
		return model.Artifact{}, fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row {
			record[i] = model.CellString(cell)
		}
		if err := cw.Write(record); err != nil {
			return model.Artifact{}, fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return model.Artifact{}, fmt.Errorf("failed to flush csv: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	w.logger.Info("Saved CSV",
		zap.String("table", t.Name),
		zap.String("path", path),
		zap.Int64("size_bytes", info.Size()))

	return model.Artifact{
		Name:      t.Name + ".csv",
		Path:      path,
		Format:    "CSV",
		SizeBytes: info.Size(),
		RowCount:  t.NumRows(),
	}, nil
}
