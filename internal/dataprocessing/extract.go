package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	apperrors "attendancify/internal/errors"
	"attendancify/pkg/contracts/domain"
)

// AttendanceSheetName is the sheet a dedicated attendance workbook must carry
const AttendanceSheetName = "Attendance"

// NameHeaders are the accepted headers of the participant name column
var NameHeaders = []string{"name", "participant name"}

// Extractor builds canonical raw tables from source files
type Extractor struct {
	logger   *slog.Logger
	detector SessionDetector
}

// NewExtractor creates an extractor. A nil detector uses DefaultSessionDetector.
func NewExtractor(logger *slog.Logger, detector SessionDetector) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if detector == nil {
		detector = DefaultSessionDetector()
	}
	return &Extractor{
		logger:   logger.With("component", "extractor"),
		detector: detector,
	}
}

// ExtractAttendanceSheet reads the "Attendance" sheet of a workbook. Session
// columns are inferred by the extractor's detector. A cell keeps its value
// when it is P or A (trimmed, any case) and becomes N/A otherwise.
func (e *Extractor) ExtractAttendanceSheet(ctx context.Context, path string) (*domain.RawTable, error) {
	if !IsSpreadsheet(path) {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("unsupported file type %q: expected an .xlsx workbook", filepath.Ext(path)))
	}

	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !containsString(f.GetSheetList(), AttendanceSheetName) {
		return nil, apperrors.NewSchemaErrorf("Sheet '%s' not found in the file.", AttendanceSheetName).
			WithContext("file", filepath.Base(path))
	}

	t, err := readSheetTable(f, AttendanceSheetName, false)
	if err != nil {
		return nil, err
	}

	nameCol := t.FindColumn(NameHeaders...)
	if nameCol < 0 {
		return nil, apperrors.NewSchemaError("No 'Name' column found.").
			WithContext("file", filepath.Base(path))
	}

	sessions := e.detector.Detect(t, nameCol)
	if len(sessions) == 0 {
		e.logger.WarnContext(ctx, "No session columns detected",
			slog.String("file", filepath.Base(path)),
			slog.Any("headers", t.Headers))
	}

	table := buildRawTable(t, nameCol, sessions, func(cell string) bool {
		v := strings.ToUpper(strings.TrimSpace(cell))
		return v == domain.StatusPresentCode || v == domain.StatusAbsentCode
	})

	e.logger.InfoContext(ctx, "Attendance sheet extracted",
		slog.String("file", filepath.Base(path)),
		slog.Int("records", len(table.Records)),
		slog.Any("sessions", table.Sessions))

	return table, nil
}

// ReadRawFile reads a generic raw attendance file (csv or workbook). Every
// column except the name column is a session column. Only the exact values
// P and A are kept; anything else becomes N/A.
func (e *Extractor) ReadRawFile(ctx context.Context, path string) (*domain.RawTable, error) {
	t, err := ReadTable(path, true)
	if err != nil {
		return nil, err
	}

	nameCol := t.FindColumn(NameHeaders...)
	if nameCol < 0 {
		return nil, apperrors.NewSchemaError("Raw file needs a 'Name' column.").
			WithContext("file", filepath.Base(path))
	}

	sessions := make([]int, 0, len(t.Headers))
	for i := range t.Headers {
		if i != nameCol {
			sessions = append(sessions, i)
		}
	}
	if len(sessions) == 0 {
		return nil, apperrors.NewSchemaError("Raw file contains no session/status columns.").
			WithContext("file", filepath.Base(path))
	}

	table := buildRawTable(t, nameCol, sessions, func(cell string) bool {
		return cell == domain.StatusPresentCode || cell == domain.StatusAbsentCode
	})

	e.logger.DebugContext(ctx, "Raw file read",
		slog.String("file", filepath.Base(path)),
		slog.Int("records", len(table.Records)),
		slog.Int("sessions", len(table.Sessions)))

	return table, nil
}

func buildRawTable(t *Table, nameCol int, sessions []int, keep func(string) bool) *domain.RawTable {
	table := &domain.RawTable{
		Sessions: make([]string, len(sessions)),
		Records:  make([]domain.RawRecord, 0, len(t.Rows)),
	}
	for i, col := range sessions {
		table.Sessions[i] = t.Headers[col]
	}

	for _, row := range t.Rows {
		rec := domain.RawRecord{
			DisplayName: row[nameCol],
			Statuses:    make([]string, len(sessions)),
		}
		for i, col := range sessions {
			if keep(row[col]) {
				rec.Statuses[i] = row[col]
			} else {
				rec.Statuses[i] = domain.StatusNA
			}
		}
		table.Records = append(table.Records, rec)
	}
	return table
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
