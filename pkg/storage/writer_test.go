package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/config"
	"github.com/bomdash/bom-ingress/pkg/model"
)

func testWriter(t *testing.T) (*Writer, string) {
	t.Helper()

	dir := t.TempDir()
	w, err := NewWriter(&config.StorageConfig{
		ProcessedDir: dir,
		SQLiteName:   "etl.sqlite",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return w, dir
}

func sampleTable() *model.Table {
	tbl := model.NewTable("fact_parts", []string{"item_id", "total", "ratio", "psw_ok", "approved"})
	tbl.AppendRow([]any{"7009-6933", 10, 0.5, true, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)})
	tbl.AppendRow([]any{"7009-6934", 20, nil, false, nil})
	return tbl
}

func TestWriteTables_CSVAndSQLite(t *testing.T) {
	t.Parallel()

	w, dir := testWriter(t)
	empty := model.NewTable("plant_item_status", []string{"a"})

	artifacts, err := w.WriteTables([]*model.Table{sampleTable(), empty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One CSV for the non-empty table plus the database.
	if len(artifacts) != 2 {
		t.Fatalf("artifacts want=2 got=%d", len(artifacts))
	}
	if artifacts[0].Format != "CSV" || artifacts[0].RowCount != 2 {
		t.Fatalf("csv artifact got=%+v", artifacts[0])
	}
	if artifacts[1].Format != "SQLite" {
		t.Fatalf("database artifact got=%+v", artifacts[1])
	}

	data, err := os.ReadFile(filepath.Join(dir, "fact_parts.csv"))
	if err != nil {
		t.Fatalf("csv not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines want=3 got=%d", len(lines))
	}
	if lines[0] != "item_id,total,ratio,psw_ok,approved" {
		t.Fatalf("csv header got=%q", lines[0])
	}
	if lines[1] != "7009-6933,10,0.5,true,2024-01-10" {
		t.Fatalf("csv row got=%q", lines[1])
	}
	if lines[2] != "7009-6934,20,,false," {
		t.Fatalf("null cells must render empty, got=%q", lines[2])
	}
}

func TestWriteTables_SQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	w, dir := testWriter(t)
	if _, err := w.WriteTables([]*model.Table{sampleTable()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	db, err := sqlx.Connect("sqlite", filepath.Join(dir, "etl.sqlite"))
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM "fact_parts"`); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("rows want=2 got=%d", count)
	}

	var itemID string
	if err := db.Get(&itemID, `SELECT item_id FROM "fact_parts" ORDER BY item_id LIMIT 1`); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if itemID != "7009-6933" {
		t.Fatalf("item_id want=7009-6933 got=%q", itemID)
	}

	// Booleans land as integers.
	var pswOK int
	if err := db.Get(&pswOK, `SELECT psw_ok FROM "fact_parts" WHERE item_id = '7009-6933'`); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if pswOK != 1 {
		t.Fatalf("psw_ok want=1 got=%d", pswOK)
	}
}

func TestWriteDataDictionary(t *testing.T) {
	t.Parallel()

	w, dir := testWriter(t)
	artifact, err := w.WriteDataDictionary([]*model.Table{sampleTable()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Name != "data_dictionary.md" || artifact.Format != "Markdown" {
		t.Fatalf("artifact got=%+v", artifact)
	}

	data, err := os.ReadFile(filepath.Join(dir, "data_dictionary.md"))
	if err != nil {
		t.Fatalf("dictionary not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "## fact_parts") {
		t.Fatalf("dictionary must document the table, got:\n%s", content)
	}
	if !strings.Contains(content, "| item_id | text |") {
		t.Fatalf("dictionary must carry inferred column types, got:\n%s", content)
	}
}
