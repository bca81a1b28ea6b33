// Package dataprocessing turns roster and attendance spreadsheets into the
// canonical tables the matcher works on.
//
// # Readers
//
// ReadTable reads a CSV file or the first sheet of a workbook into a Table:
// the first non-blank row is the header, blank rows are dropped, short rows
// are padded, blank headers become "Unnamed: <i>" and repeated headers are
// suffixed ".1", ".2", ...
//
// # Raw extraction
//
// Extractor.ExtractAttendanceSheet handles workbooks exported with a dedicated
// "Attendance" sheet. Session columns are not reliably labelled there, so a
// SessionDetector infers them: first from the values in each column, then from
// headers mentioning "session".
//
// Extractor.ReadRawFile handles the generic layout where every column other
// than the name column is a session column.
//
// The two modes classify cells differently: the dedicated sheet accepts P and
// A in any case and with surrounding spaces, the generic reader accepts only
// the exact uppercase codes. Everything else becomes "N/A".
//
// # Status mapping
//
// MapStatus and ApplyStatusMapping convert P/A codes to "present"/"absent"
// for the report. They only ever touch session values.
//
// # Errors
//
// Missing sheets or columns are reported as schema errors from
// internal/errors whose message is suitable for display:
//
//	table, err := extractor.ExtractAttendanceSheet(ctx, "meeting.xlsx")
//	if apperrors.IsSchemaError(err) {
//	    fmt.Println(err) // Sheet 'Attendance' not found in the file.
//	}
package dataprocessing
