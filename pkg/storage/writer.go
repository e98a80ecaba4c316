// pkg/storage/writer.go
package storage

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/config"
	"github.com/bomdash/bom-ingress/pkg/model"
)

// Writer persists finished tables: one CSV per table plus a single SQLite
// database holding every table. Empty tables are skipped.
type Writer struct {
	dir        string
	sqliteName string
	logger     *zap.Logger
}

// NewWriter creates a writer rooted at the configured processed directory.
func NewWriter(cfg *config.StorageConfig, logger *zap.Logger) (*Writer, error) {
	if err := os.MkdirAll(cfg.ProcessedDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create processed directory: %w", err)
	}
	return &Writer{
		dir:        cfg.ProcessedDir,
		sqliteName: cfg.SQLiteName,
		logger:     logger,
	}, nil
}

// WriteTables persists all tables in one batch and returns the artifact
// list. A failing CSV write for one table is logged and skipped so the
// remaining outputs still land; a failing database write is an error.
func (w *Writer) WriteTables(tables []*model.Table) ([]model.Artifact, error) {
	var artifacts []model.Artifact

	w.logger.Info("Starting data storage", zap.Int("total_tables", len(tables)))

	for _, t := range tables {
		if t.IsEmpty() {
			w.logger.Warn("Skipping empty table", zap.String("table", t.Name))
			continue
		}
		artifact, err := w.writeCSV(t)
		if err != nil {
			w.logger.Error("Failed to save CSV",
				zap.String("table", t.Name), zap.Error(err))
			continue
		}
		artifacts = append(artifacts, artifact)
	}

	dbArtifact, err := w.writeSQLite(tables)
	if err != nil {
		return artifacts, fmt.Errorf("failed to save SQLite database: %w", err)
	}
	artifacts = append(artifacts, dbArtifact)

	w.logger.Info("Data storage complete", zap.Int("total_artifacts", len(artifacts)))
	return artifacts, nil
}
