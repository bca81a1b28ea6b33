package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportNames(t *testing.T) {
	tests := []struct {
		roster, raw      string
		wantPrefix       string
		wantWorkbookName string
	}{
		{"/in/master.csv", "/in/meeting-RAW.xlsx", "master_matched_with_meeting-RAW_", "master_matched_with_meeting-RAW_attendance.xlsx"},
		{"roster.v2.xlsx", "day1.csv", "roster.v2_matched_with_day1_", "roster.v2_matched_with_day1_attendance.xlsx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantPrefix, ReportPrefix(tt.roster, tt.raw))
		assert.Equal(t, tt.wantWorkbookName, WorkbookReportName(tt.roster, tt.raw))
	}
}

func TestRawWorkbookName(t *testing.T) {
	assert.Equal(t, "meeting-RAW.xlsx", RawWorkbookName("/uploads/meeting.xlsx"))
	assert.Equal(t, "Stem", Stem("dir/Stem.csv"))
}
