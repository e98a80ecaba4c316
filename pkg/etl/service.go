// pkg/etl/service.go
package etl

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/calendar"
	"github.com/bomdash/bom-ingress/pkg/cleaner"
	"github.com/bomdash/bom-ingress/pkg/logging"
	"github.com/bomdash/bom-ingress/pkg/masterbom"
	"github.com/bomdash/bom-ingress/pkg/model"
	"github.com/bomdash/bom-ingress/pkg/status"
)

// Workbook is the reader contract the service needs from the upload layer.
type Workbook interface {
	SheetNames() []string
	ReadSheet(name string) ([][]string, error)
	Close() error
}

// WorkbookOpener resolves an upload handle to an open workbook.
type WorkbookOpener interface {
	Open(handle string) (Workbook, error)
}

// OpenerFunc adapts a function to the WorkbookOpener interface.
type OpenerFunc func(handle string) (Workbook, error)

// Open calls the wrapped function.
func (f OpenerFunc) Open(handle string) (Workbook, error) { return f(handle) }

// TableWriter persists finished tables and reports the written artifacts.
type TableWriter interface {
	WriteTables(tables []*model.Table) ([]model.Artifact, error)
	WriteDataDictionary(tables []*model.Table) (model.Artifact, error)
}

// Options tune one transform run.
type Options struct {
	IDColumn            string   `json:"id_col"`
	DateColumns         []string `json:"date_cols"`
	ExcludedDateColumns []string `json:"excluded_date_cols"`
}

// Request identifies the workbook and sheets to transform.
type Request struct {
	Handle      string  `json:"file_id"`
	MasterSheet string  `json:"master_sheet"`
	StatusSheet string  `json:"status_sheet"`
	Options     Options `json:"options"`
}

// Response carries the transform outcome: artifacts, summary statistics and
// every message collected during the run. A failed run still returns the
// messages gathered up to the failure point.
type Response struct {
	Success   bool                   `json:"success"`
	Artifacts []model.Artifact       `json:"artifacts"`
	Summary   model.TransformSummary `json:"summary"`
	Messages  []logging.Message      `json:"messages"`
	Error     string                 `json:"error,omitempty"`
}

// Service orchestrates one transform: read both sheets, run the MasterBOM
// and Status pipelines, build the calendar from their date columns, persist
// everything in one batch and summarize.
type Service struct {
	opener          WorkbookOpener
	writer          TableWriter
	logger          *zap.Logger
	defaultIDColumn string
}

// NewService wires the transform service to its collaborators.
func NewService(opener WorkbookOpener, writer TableWriter, logger *zap.Logger, defaultIDColumn string) *Service {
	if defaultIDColumn == "" {
		defaultIDColumn = "YAZAKI PN"
	}
	return &Service{
		opener:          opener,
		writer:          writer,
		logger:          logger,
		defaultIDColumn: defaultIDColumn,
	}
}

// Transform runs the full pipeline. Input errors (unknown handle, missing
// sheet) are returned as errors for the caller to map onto its surface;
// processing failures produce a Success=false response that still carries
// the collected messages.
func (s *Service) Transform(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	collector := logging.NewCollector(s.logger)

	wb, err := s.opener.Open(req.Handle)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", req.Handle, err)
	}
	defer wb.Close()

	masterSheet, statusSheet, err := resolveSheets(wb, req)
	if err != nil {
		return nil, err
	}

	collector.Info("Starting ETL transformation",
		zap.String("file_id", req.Handle),
		zap.String("master_sheet", masterSheet),
		zap.String("status_sheet", statusSheet))

	masterGrid, err := wb.ReadSheet(masterSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read master sheet: %w", err)
	}
	statusGrid, err := wb.ReadSheet(statusSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read status sheet: %w", err)
	}

	collector.Info("Sheets loaded",
		zap.Int("master_rows", len(masterGrid)-1),
		zap.Int("status_rows", len(statusGrid)-1))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idColumn := req.Options.IDColumn
	if idColumn == "" {
		idColumn = s.defaultIDColumn
	}

	masterResult, err := masterbom.NewProcessor(collector, masterbom.Options{
		IDColumn:            idColumn,
		DateColumns:         req.Options.DateColumns,
		ExcludedDateColumns: req.Options.ExcludedDateColumns,
	}).Process(masterGrid)
	if err != nil {
		return failedResponse(collector, start, err), nil
	}

	statusResult, err := status.NewProcessor(collector).Process(statusGrid)
	if err != nil {
		collector.Error("Status sheet processing failed: " + err.Error())
		return failedResponse(collector, start, err), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, roles := s.gatherDateRoles(collector, masterGrid, req.Options)
	dimDates, bridge := calendar.Build(series)
	collector.Info("Date dimension created",
		zap.Int("dim_dates_rows", dimDates.NumRows()),
		zap.Int("date_bridge_rows", bridge.NumRows()))

	tables := []*model.Table{
		masterResult.MasterBOMClean,
		masterResult.PlantItemStatus,
		masterResult.FactParts,
		statusResult.StatusClean,
		statusResult.ProjectCompletionByPlant,
		dimDates,
		bridge,
	}

	collector.Info("Saving processed data")
	artifacts, err := s.writer.WriteTables(tables)
	if err != nil {
		collector.Error("Failed to persist outputs: " + err.Error())
		return failedResponse(collector, start, err), nil
	}
	if dict, err := s.writer.WriteDataDictionary(tables); err == nil {
		artifacts = append(artifacts, dict)
	} else {
		collector.Warn("Failed to create data dictionary: " + err.Error())
	}

	summary := summarize(masterResult, roles, start)

	collector.Info("ETL transformation completed",
		zap.Float64("processing_time", summary.ProcessingTimeSeconds),
		zap.Int("total_artifacts", len(artifacts)))

	return &Response{
		Success:   true,
		Artifacts: artifacts,
		Summary:   summary,
		Messages:  collector.Messages(),
	}, nil
}

// resolveSheets applies sheet-name defaults (first sheet for the master,
// second for the status) and validates both against the workbook.
func resolveSheets(wb Workbook, req Request) (string, string, error) {
	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		return "", "", fmt.Errorf("workbook has no sheets")
	}

	master := req.MasterSheet
	if master == "" {
		master = sheets[0]
	}
	statusSheet := req.StatusSheet
	if statusSheet == "" {
		if len(sheets) < 2 {
			return "", "", fmt.Errorf("workbook has no second sheet for status data")
		}
		statusSheet = sheets[1]
	}

	if !containsString(sheets, master) {
		return "", "", fmt.Errorf("master sheet %q not found", master)
	}
	if !containsString(sheets, statusSheet) {
		return "", "", fmt.Errorf("status sheet %q not found", statusSheet)
	}
	return master, statusSheet, nil
}

// gatherDateRoles collects the calendar inputs from the raw master table:
// explicitly requested columns first, then auto-detected ones minus the
// exclusion list.
func (s *Service) gatherDateRoles(collector *logging.Collector, masterGrid [][]string, opts Options) ([]calendar.RoleSeries, []string) {
	raw := cleaner.TableFromGrid("masterbom_raw", masterGrid)

	excluded := make(map[string]bool, len(opts.ExcludedDateColumns))
	for _, col := range opts.ExcludedDateColumns {
		excluded[col] = true
	}

	var series []calendar.RoleSeries
	var roles []string
	add := func(col string) {
		if excluded[col] || containsString(roles, col) || !raw.HasColumn(col) {
			return
		}
		roles = append(roles, col)
		series = append(series, calendar.RoleSeries{
			Role:  col,
			Dates: cleaner.CollectDates(raw, col),
		})
	}

	for _, col := range opts.DateColumns {
		add(col)
	}
	for _, col := range cleaner.DetectDateColumns(raw) {
		add(col)
	}

	collector.Info("Collected date columns for dimension",
		zap.Strings("columns", roles))
	return series, roles
}

func failedResponse(collector *logging.Collector, start time.Time, err error) *Response {
	return &Response{
		Success: false,
		Summary: model.TransformSummary{
			ProcessingTimeSeconds: time.Since(start).Seconds(),
		},
		Messages: collector.Messages(),
		Error:    err.Error(),
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
