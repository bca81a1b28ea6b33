package exporter

import (
	"path/filepath"
	"strings"
)

// Bundle names used when several artifacts are packaged together
const (
	MatchingBundleName = "matching_results.zip"
	RawBundleName      = "raw_excel_files.zip"
)

// Stem returns the file name without directory and extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReportPrefix is the shared file name prefix for one roster/raw pair
func ReportPrefix(rosterPath, rawPath string) string {
	return Stem(rosterPath) + "_matched_with_" + Stem(rawPath) + "_"
}

// WorkbookReportName is the file name of the workbook report
func WorkbookReportName(rosterPath, rawPath string) string {
	return ReportPrefix(rosterPath, rawPath) + "attendance.xlsx"
}

// RawWorkbookName is the file name of an extracted raw table
func RawWorkbookName(sourcePath string) string {
	return Stem(sourcePath) + "-RAW.xlsx"
}
