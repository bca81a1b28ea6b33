package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"attendancify/pkg/contracts/domain"
)

// Sheet names of the workbook report
const (
	MatchedSheet   = "Matched"
	UnmatchedSheet = "Unmatched Raw"
	SummarySheet   = "Summary"
)

// Column headers of the report tables
const (
	IdentifierHeader    = "Email"
	ParticipantHeader   = "Participant Name"
	UnmatchedNameHeader = "Raw Name (not found in Master)"
)

// SummaryHeaders label the empty summary table left for manual entry
var SummaryHeaders = []string{"email_id", "attendance(absent/present/leave)"}

// Report is one reconciled roster/raw pair ready to be written. Statuses are
// written as given; status mapping happens before.
type Report struct {
	RosterPath     string
	RawPath        string
	OutputDir      string // defaults to the roster's directory
	Reconciliation *domain.Reconciliation
}

func (r Report) outputDir() string {
	if r.OutputDir != "" {
		return r.OutputDir
	}
	return filepath.Dir(r.RosterPath)
}

// ReportWriter writes a report and returns the files it produced
type ReportWriter interface {
	Write(ctx context.Context, report Report) (domain.Artifact, error)
}

// WriterOptions configures NewReportWriter
type WriterOptions struct {
	CSVBOM bool
	Logger *slog.Logger
}

// NewReportWriter returns the writer for format
func NewReportWriter(format domain.OutputFormat, opts WriterOptions) (ReportWriter, error) {
	switch format {
	case domain.OutputFormatXLSX:
		return NewWorkbookWriter(opts.Logger), nil
	case domain.OutputFormatCSV:
		return NewCSVReportWriter(opts.Logger, opts.CSVBOM), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// MatchedTable returns the matched table in roster order
func MatchedTable(rec *domain.Reconciliation) ([]string, [][]string) {
	headers := append([]string{IdentifierHeader, ParticipantHeader}, rec.Sessions...)
	rows := make([][]string, 0, len(rec.Matched))
	for _, m := range rec.Matched {
		row := make([]string, 0, len(headers))
		row = append(row, m.Entry.Identifier, m.Entry.DisplayName)
		row = append(row, m.Statuses...)
		rows = append(rows, row)
	}
	return headers, rows
}

// UnmatchedTable returns the raw rows no roster entry accepted, in raw order
func UnmatchedTable(rec *domain.Reconciliation) ([]string, [][]string) {
	headers := append([]string{UnmatchedNameHeader}, rec.Sessions...)
	rows := make([][]string, 0, len(rec.Unmatched))
	for _, r := range rec.Unmatched {
		row := make([]string, 0, len(headers))
		row = append(row, r.DisplayName)
		row = append(row, r.Statuses...)
		rows = append(rows, row)
	}
	return headers, rows
}
