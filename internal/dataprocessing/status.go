package dataprocessing

import (
	"strings"

	"attendancify/pkg/contracts/domain"
)

// MapStatus maps P to present and A to absent in either case. Any other
// value is returned unchanged.
func MapStatus(v string) string {
	switch strings.TrimSpace(v) {
	case "P", "p":
		return domain.StatusPresent
	case "A", "a":
		return domain.StatusAbsent
	}
	return v
}

// MapStatuses applies MapStatus to every session value
func MapStatuses(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = MapStatus(v)
	}
	return out
}

// ApplyStatusMapping returns a copy of rec with the session values of both
// the matched and unmatched rows mapped. Names and identifiers are untouched.
func ApplyStatusMapping(rec *domain.Reconciliation) *domain.Reconciliation {
	out := &domain.Reconciliation{
		Sessions:  append([]string(nil), rec.Sessions...),
		Matched:   make([]domain.MatchResult, len(rec.Matched)),
		Unmatched: make([]domain.RawRecord, len(rec.Unmatched)),
		Consumed:  append([]int(nil), rec.Consumed...),
	}
	for i, m := range rec.Matched {
		m.Statuses = MapStatuses(m.Statuses)
		out.Matched[i] = m
	}
	for i, r := range rec.Unmatched {
		r.Statuses = MapStatuses(r.Statuses)
		out.Unmatched[i] = r
	}
	return out
}
