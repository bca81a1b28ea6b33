package domain

import (
	"fmt"
	"strings"
)

// Status literals used in raw tables and reconciled output
const (
	StatusPresentCode = "P"
	StatusAbsentCode  = "A"
	StatusNA          = "N/A"
	StatusPresent     = "present"
	StatusAbsent      = "absent"
)

// RosterEntry is one enrolled participant from the roster file
type RosterEntry struct {
	Identifier  string `json:"identifier"`
	DisplayName string `json:"display_name"`
}

// RawRecord is one row of a canonical raw attendance table
type RawRecord struct {
	DisplayName string   `json:"display_name"`
	Statuses    []string `json:"statuses"`
}

// RawTable is the canonical (Name, Status_1..Status_N) table.
// Every record carries exactly len(Sessions) statuses.
type RawTable struct {
	Sessions []string    `json:"sessions"`
	Records  []RawRecord `json:"records"`
}

// Validate checks that every record has one status per session column
func (t *RawTable) Validate() error {
	for i, rec := range t.Records {
		if len(rec.Statuses) != len(t.Sessions) {
			return fmt.Errorf("record %d has %d statuses, want %d", i, len(rec.Statuses), len(t.Sessions))
		}
	}
	return nil
}

// MatchResult is the outcome of aligning one roster entry against a raw table
type MatchResult struct {
	Entry       RosterEntry `json:"entry"`
	Record      *RawRecord  `json:"record,omitempty"`
	RecordIndex int         `json:"record_index"`
	Score       int         `json:"score"`
	Accepted    bool        `json:"accepted"`
	Statuses    []string    `json:"statuses"`
}

// Reconciliation holds the full result of matching a roster to a raw table
type Reconciliation struct {
	Sessions  []string      `json:"sessions"`
	Matched   []MatchResult `json:"matched"`
	Unmatched []RawRecord   `json:"unmatched"`
	Consumed  []int         `json:"consumed"`
}

// AcceptedCount returns the number of roster entries that received statuses
func (r *Reconciliation) AcceptedCount() int {
	n := 0
	for _, m := range r.Matched {
		if m.Accepted {
			n++
		}
	}
	return n
}

// OutputFormat selects the physical encoding of a reconciliation report
type OutputFormat string

const (
	OutputFormatXLSX OutputFormat = "xlsx"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat converts user input into an OutputFormat
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputFormatXLSX:
		return OutputFormatXLSX, nil
	case OutputFormatCSV:
		return OutputFormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want xlsx or csv)", s)
	}
}

// Artifact describes the files written by one invocation.
// Primary is the path handed back to the caller.
type Artifact struct {
	Primary string   `json:"primary"`
	Files   []string `json:"files"`
}
