// Package exporter writes reconciliation reports and extracted raw tables.
//
// A ReportWriter turns one Report into files next to the roster (or in
// Report.OutputDir). Two encodings exist:
//
// WorkbookWriter: one <roster>_matched_with_<raw>_attendance.xlsx workbook
// with the sheets Matched, Unmatched Raw (omitted when empty) and Summary.
//
// CSVReportWriter: <prefix>matched.csv, <prefix>unmatched.csv and
// <prefix>summary.csv, optionally with a UTF-8 BOM for Excel.
//
// Example usage:
//
//	writer, err := exporter.NewReportWriter(domain.OutputFormatXLSX, exporter.WriterOptions{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	artifact, err := writer.Write(ctx, exporter.Report{
//	    RosterPath:     "master.csv",
//	    RawPath:        "meeting-RAW.xlsx",
//	    Reconciliation: rec,
//	})
//
// BundleZip packs several artifacts into one archive for download.
package exporter
