package dataprocessing

import (
	"strings"

	"attendancify/pkg/contracts/domain"
)

// SessionDetector picks the session columns of a table. exclude is the
// name column, which is never a session column.
type SessionDetector interface {
	Detect(t *Table, exclude int) []int
}

// ValueSetDetector selects columns whose distinct non-blank values all reduce
// to P or A. Values are trimmed, stripped of brackets and quotes left over
// from display formatting, and compared case-insensitively.
type ValueSetDetector struct{}

// Detect implements SessionDetector
func (ValueSetDetector) Detect(t *Table, exclude int) []int {
	var cols []int
	for i := range t.Headers {
		if i == exclude {
			continue
		}
		if isPresenceColumn(t.Column(i)) {
			cols = append(cols, i)
		}
	}
	return cols
}

func isPresenceColumn(cells []string) bool {
	seen := false
	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		v := strings.ToUpper(strings.Trim(cell, " \t[]'\""))
		if v != domain.StatusPresentCode && v != domain.StatusAbsentCode {
			return false
		}
		seen = true
	}
	return seen
}

// HeaderSubstringDetector selects columns whose header contains Substring,
// ignoring case.
type HeaderSubstringDetector struct {
	Substring string
}

// Detect implements SessionDetector
func (d HeaderSubstringDetector) Detect(t *Table, exclude int) []int {
	needle := strings.ToLower(d.Substring)
	var cols []int
	for i, h := range t.Headers {
		if i != exclude && strings.Contains(strings.ToLower(h), needle) {
			cols = append(cols, i)
		}
	}
	return cols
}

// FirstNonEmpty runs detectors in order and returns the first non-empty result
type FirstNonEmpty []SessionDetector

// Detect implements SessionDetector
func (f FirstNonEmpty) Detect(t *Table, exclude int) []int {
	for _, d := range f {
		if cols := d.Detect(t, exclude); len(cols) > 0 {
			return cols
		}
	}
	return nil
}

// DefaultSessionDetector infers session columns from their values and falls
// back to headers mentioning "session".
func DefaultSessionDetector() SessionDetector {
	return FirstNonEmpty{
		ValueSetDetector{},
		HeaderSubstringDetector{Substring: "session"},
	}
}
