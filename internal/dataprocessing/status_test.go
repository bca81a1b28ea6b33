package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"attendancify/pkg/contracts/domain"
)

func TestMapStatus(t *testing.T) {
	tests := map[string]string{
		"P":       "present",
		"p":       "present",
		"A":       "absent",
		"a":       "absent",
		" P ":     "present",
		"N/A":     "N/A",
		"":        "",
		"late":    "late",
		"present": "present",
	}
	for in, want := range tests {
		assert.Equal(t, want, MapStatus(in), "input %q", in)
	}
}

func TestMapStatusesExhaustive(t *testing.T) {
	// Values as produced by either extractor mode
	extracted := []string{"P", "A", "p", "a", " a ", "N/A"}
	for _, v := range MapStatuses(extracted) {
		assert.Contains(t, []string{"present", "absent", "N/A"}, v)
	}
}

func TestApplyStatusMapping(t *testing.T) {
	in := &domain.Reconciliation{
		Sessions: []string{"S1", "S2"},
		Matched: []domain.MatchResult{
			{Entry: domain.RosterEntry{Identifier: "P", DisplayName: "A"}, Accepted: true, Statuses: []string{"P", "A"}},
			{Entry: domain.RosterEntry{Identifier: "b@x.com", DisplayName: "Bob"}, Statuses: []string{"N/A", "N/A"}},
		},
		Unmatched: []domain.RawRecord{{DisplayName: "P", Statuses: []string{"P", "P"}}},
		Consumed:  []int{0},
	}

	out := ApplyStatusMapping(in)

	assert.Equal(t, []string{"present", "absent"}, out.Matched[0].Statuses)
	assert.Equal(t, "P", out.Matched[0].Entry.Identifier, "identifier column is never mapped")
	assert.Equal(t, "A", out.Matched[0].Entry.DisplayName, "name column is never mapped")
	assert.Equal(t, []string{"N/A", "N/A"}, out.Matched[1].Statuses)
	assert.Equal(t, "P", out.Unmatched[0].DisplayName)
	assert.Equal(t, []string{"present", "present"}, out.Unmatched[0].Statuses)

	// input untouched
	assert.Equal(t, []string{"P", "A"}, in.Matched[0].Statuses)
	assert.Equal(t, []string{"P", "P"}, in.Unmatched[0].Statuses)
}
