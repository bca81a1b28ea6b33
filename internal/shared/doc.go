// Package shared provides common utilities and test helpers used across the
// Attendancify codebase.
//
// The testutil subpackage provides:
//
//	- a buffered slog handler for asserting on log output
//	- fixture writers for rosters and raw attendance files (csv and xlsx)
//	- readers for inspecting produced workbooks and csv reports
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    dir := t.TempDir()
//	    roster := testutil.WriteCSV(t, dir, "roster.csv", [][]string{
//	        {"Email", "Participant Name"},
//	        {"a@x.com", "Alice Smith"},
//	    })
//	    // ...
//	}
package shared
