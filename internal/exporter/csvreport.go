package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"attendancify/pkg/contracts/domain"
)

// CSVReportWriter writes reports as separate matched, unmatched and summary
// CSV files sharing the pair's name prefix.
type CSVReportWriter struct {
	bom    bool
	logger *slog.Logger
}

// NewCSVReportWriter creates a CSV report writer. With bom set every file
// starts with a UTF-8 byte order mark.
func NewCSVReportWriter(logger *slog.Logger, bom bool) *CSVReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "csv_report_writer")
	return &CSVReportWriter{bom: bom, logger: logger}
}

// Write produces <prefix>matched.csv, <prefix>unmatched.csv when any raw row
// went unmatched, and <prefix>summary.csv. Files already written are removed
// if a later one fails.
func (w *CSVReportWriter) Write(ctx context.Context, report Report) (domain.Artifact, error) {
	rec := report.Reconciliation
	prefix := filepath.Join(report.outputDir(), ReportPrefix(report.RosterPath, report.RawPath))

	type part struct {
		path  string
		table csvTable
	}
	headers, rows := MatchedTable(rec)
	parts := []part{{prefix + "matched.csv", csvTable{headers, rows}}}
	if len(rec.Unmatched) > 0 {
		headers, rows = UnmatchedTable(rec)
		parts = append(parts, part{prefix + "unmatched.csv", csvTable{headers, rows}})
	}
	parts = append(parts, part{prefix + "summary.csv", csvTable{Headers: SummaryHeaders}})

	written := make([]string, 0, len(parts))
	for _, p := range parts {
		if err := writeCSVFile(p.path, p.table, w.bom); err != nil {
			removeAll(written)
			return domain.Artifact{}, err
		}
		written = append(written, p.path)
	}

	w.logger.InfoContext(ctx, "CSV report written",
		slog.String("prefix", prefix),
		slog.Int("files", len(written)))

	return domain.Artifact{Primary: written[0], Files: written}, nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
