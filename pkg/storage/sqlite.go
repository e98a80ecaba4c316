// pkg/storage/sqlite.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/bomdash/bom-ingress/pkg/model"
)

// writeSQLite saves every non-empty table into one database file,
// replacing any previous run's output.
func (w *Writer) writeSQLite(tables []*model.Table) (model.Artifact, error) {
	path := filepath.Join(w.dir, w.sqliteName)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return model.Artifact{}, fmt.Errorf("failed to remove previous database: %w", err)
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	saved, totalRows := 0, 0
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		if err := w.writeTable(db, t); err != nil {
			return model.Artifact{}, fmt.Errorf("failed to write table %s: %w", t.Name, err)
		}
		saved++
		totalRows += t.NumRows()

		w.logger.Info("Saved table to SQLite",
			zap.String("table", t.Name),
			zap.Int("rows", t.NumRows()))
	}

	info, err := os.Stat(path)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("failed to stat database: %w", err)
	}

	w.logger.Info("Saved SQLite database",
		zap.String("path", path),
		zap.Int("tables", saved),
		zap.Int64("size_bytes", info.Size()))

	return model.Artifact{
		Name:      w.sqliteName,
		Path:      path,
		Format:    "SQLite",
		SizeBytes: info.Size(),
		RowCount:  totalRows,
	}, nil
}

// writeTable creates the table and inserts all rows inside one transaction
// with a prepared statement.
func (w *Writer) writeTable(db *sqlx.DB, t *model.Table) error {
	colDefs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		colDefs[i] = quoteIdent(col) + " " + columnType(t, i)
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)",
		quoteIdent(t.Name), strings.Join(colDefs, ", "))
	if _, err := db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)",
		quoteIdent(t.Name), placeholders)

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				w.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr), zap.NamedError("cause", err))
			}
		}
	}()

	stmt, err := tx.Preparex(insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row {
			args[i] = sqliteValue(cell)
		}
		if _, err = stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// columnType infers a SQLite affinity from the first non-null cell.
func columnType(t *model.Table, col int) string {
	for _, row := range t.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case int, int64, bool:
			return "INTEGER"
		case float64:
			return "REAL"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

func sqliteValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(model.DateLayout)
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return v
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
