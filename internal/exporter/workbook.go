package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"attendancify/pkg/contracts/domain"
)

// WorkbookWriter writes reports as a single xlsx workbook
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook report writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger.With("component", "workbook_writer")}
}

// Write saves the Matched, Unmatched Raw (only when non-empty) and Summary
// sheets to <roster>_matched_with_<raw>_attendance.xlsx.
func (w *WorkbookWriter) Write(ctx context.Context, report Report) (domain.Artifact, error) {
	rec := report.Reconciliation
	path := filepath.Join(report.outputDir(), WorkbookReportName(report.RosterPath, report.RawPath))

	sheets := []sheetData{}
	headers, rows := MatchedTable(rec)
	sheets = append(sheets, sheetData{name: MatchedSheet, headers: headers, rows: rows})
	if len(rec.Unmatched) > 0 {
		headers, rows = UnmatchedTable(rec)
		sheets = append(sheets, sheetData{name: UnmatchedSheet, headers: headers, rows: rows})
	}
	sheets = append(sheets, sheetData{name: SummarySheet, headers: SummaryHeaders})

	if err := saveWorkbook(path, sheets); err != nil {
		return domain.Artifact{}, err
	}

	w.logger.InfoContext(ctx, "Workbook report written",
		slog.String("path", path),
		slog.Int("matched_rows", len(rec.Matched)),
		slog.Int("unmatched_rows", len(rec.Unmatched)))

	return domain.Artifact{Primary: path, Files: []string{path}}, nil
}

// WriteRawTable saves an extracted raw table as a one-sheet workbook with
// the headers Name, <sessions...>.
func WriteRawTable(table *domain.RawTable, path string) error {
	headers := append([]string{"Name"}, table.Sessions...)
	rows := make([][]string, 0, len(table.Records))
	for _, rec := range table.Records {
		rows = append(rows, append([]string{rec.DisplayName}, rec.Statuses...))
	}
	return saveWorkbook(path, []sheetData{{name: "Sheet1", headers: headers, rows: rows}})
}

type sheetData struct {
	name    string
	headers []string
	rows    [][]string
}

func saveWorkbook(path string, sheets []sheetData) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sh.name, err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sh.name, err)
		}

		if err := writeRows(f, sh, headerStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeRows(f *excelize.File, sh sheetData, headerStyle int) error {
	all := append([][]string{sh.headers}, sh.rows...)
	for r, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sh.name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", r+1, sh.name, err)
		}
	}

	if len(sh.headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sh.headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %q: %w", sh.name, err)
		}
	}
	return nil
}
