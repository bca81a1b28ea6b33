package exporter

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendancify/pkg/contracts/domain"
)

func sampleReconciliation(withUnmatched bool) *domain.Reconciliation {
	rec := &domain.Reconciliation{
		Sessions: []string{"Status_1", "Status_2"},
		Matched: []domain.MatchResult{
			{
				Entry:    domain.RosterEntry{Identifier: "alice@x.com", DisplayName: "Alice Smith"},
				Accepted: true, Score: 100,
				Statuses: []string{"present", "absent"},
			},
			{
				Entry:       domain.RosterEntry{Identifier: "carol@x.com", DisplayName: "Carol"},
				RecordIndex: -1,
				Statuses:    []string{"N/A", "N/A"},
			},
		},
		Consumed: []int{0},
	}
	if withUnmatched {
		rec.Unmatched = []domain.RawRecord{{DisplayName: "Zed", Statuses: []string{"P", "P"}}}
	}
	return rec
}

func TestNewReportWriter(t *testing.T) {
	w, err := NewReportWriter(domain.OutputFormatXLSX, WriterOptions{})
	require.NoError(t, err)
	assert.IsType(t, &WorkbookWriter{}, w)

	w, err = NewReportWriter(domain.OutputFormatCSV, WriterOptions{CSVBOM: true})
	require.NoError(t, err)
	require.IsType(t, &CSVReportWriter{}, w)
	assert.True(t, w.(*CSVReportWriter).bom)

	_, err = NewReportWriter("pdf", WriterOptions{})
	assert.Error(t, err)
}

func TestWorkbookWriter_Write(t *testing.T) {
	dir := t.TempDir()
	report := Report{
		RosterPath:     filepath.Join(dir, "master.csv"),
		RawPath:        filepath.Join(dir, "meeting-RAW.xlsx"),
		Reconciliation: sampleReconciliation(true),
	}

	artifact, err := NewWorkbookWriter(nil).Write(context.Background(), report)
	require.NoError(t, err)

	want := filepath.Join(dir, "master_matched_with_meeting-RAW_attendance.xlsx")
	assert.Equal(t, want, artifact.Primary)
	assert.Equal(t, []string{want}, artifact.Files)

	f, err := excelize.OpenFile(want)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{MatchedSheet, UnmatchedSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(MatchedSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Email", "Participant Name", "Status_1", "Status_2"},
		{"alice@x.com", "Alice Smith", "present", "absent"},
		{"carol@x.com", "Carol", "N/A", "N/A"},
	}, rows)

	rows, err = f.GetRows(UnmatchedSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{UnmatchedNameHeader, "Status_1", "Status_2"},
		{"Zed", "P", "P"},
	}, rows)

	rows, err = f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{SummaryHeaders}, rows)
}

func TestWorkbookWriter_OmitsEmptyUnmatchedSheet(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	artifact, err := NewWorkbookWriter(nil).Write(context.Background(), Report{
		RosterPath:     filepath.Join(dir, "master.xlsx"),
		RawPath:        filepath.Join(dir, "raw.csv"),
		OutputDir:      out,
		Reconciliation: sampleReconciliation(false),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "master_matched_with_raw_attendance.xlsx"), artifact.Primary)

	f, err := excelize.OpenFile(artifact.Primary)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{MatchedSheet, SummarySheet}, f.GetSheetList())
}

func TestWriteRawTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting-RAW.xlsx")
	table := &domain.RawTable{
		Sessions: []string{"Status_1"},
		Records: []domain.RawRecord{
			{DisplayName: "Alice", Statuses: []string{"P"}},
			{DisplayName: "", Statuses: []string{"N/A"}},
		},
	}
	require.NoError(t, WriteRawTable(table, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Status_1"}, {"Alice", "P"}, {"", "N/A"}}, rows)
}

func TestCSVReportWriter_Write(t *testing.T) {
	dir := t.TempDir()
	report := Report{
		RosterPath:     filepath.Join(dir, "master.csv"),
		RawPath:        filepath.Join(dir, "raw.csv"),
		Reconciliation: sampleReconciliation(true),
	}

	artifact, err := NewCSVReportWriter(nil, true).Write(context.Background(), report)
	require.NoError(t, err)

	prefix := filepath.Join(dir, "master_matched_with_raw_")
	assert.Equal(t, prefix+"matched.csv", artifact.Primary)
	assert.Equal(t, []string{prefix + "matched.csv", prefix + "unmatched.csv", prefix + "summary.csv"}, artifact.Files)

	assert.Equal(t, [][]string{
		{"Email", "Participant Name", "Status_1", "Status_2"},
		{"alice@x.com", "Alice Smith", "present", "absent"},
		{"carol@x.com", "Carol", "N/A", "N/A"},
	}, readCSVFile(t, prefix+"matched.csv"))
	assert.Equal(t, [][]string{{UnmatchedNameHeader, "Status_1", "Status_2"}, {"Zed", "P", "P"}},
		readCSVFile(t, prefix+"unmatched.csv"))
	assert.Equal(t, [][]string{SummaryHeaders}, readCSVFile(t, prefix+"summary.csv"))
}

func TestCSVReportWriter_NoUnmatchedFile(t *testing.T) {
	dir := t.TempDir()
	artifact, err := NewCSVReportWriter(nil, false).Write(context.Background(), Report{
		RosterPath:     filepath.Join(dir, "m.csv"),
		RawPath:        filepath.Join(dir, "r.csv"),
		Reconciliation: sampleReconciliation(false),
	})
	require.NoError(t, err)
	assert.Len(t, artifact.Files, 2)
	_, err = os.Stat(filepath.Join(dir, "m_matched_with_r_unmatched.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestBundleZip(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a", "report.xlsx")
	b := filepath.Join(dir, "b", "report.xlsx")
	c := filepath.Join(dir, "c.csv")
	for _, p := range []string{a, b, c} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(filepath.Base(p)), 0644))
	}

	dst := filepath.Join(dir, "out", MatchingBundleName)
	require.NoError(t, BundleZip(dst, []string{a, b, c}))

	zr, err := zip.OpenReader(dst)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"report.xlsx", "report_1.xlsx", "c.csv"}, names)
}

func TestBundleZip_MissingFileRemovesArchive(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, RawBundleName)
	err := BundleZip(dst, []string{filepath.Join(dir, "missing.xlsx")})
	require.Error(t, err)
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}
