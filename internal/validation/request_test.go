package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "attendancify/internal/errors"
)

func TestRequestValidator_ReconcileRequest(t *testing.T) {
	rv := NewRequestValidator()

	tests := []struct {
		name       string
		req        ReconcileRequest
		wantFields []string
	}{
		{
			name: "valid xlsx",
			req:  ReconcileRequest{OutputFormat: "xlsx", RosterFiles: []string{"m.csv"}, RawFiles: []string{"r.xlsx"}},
		},
		{
			name: "format defaults when empty",
			req:  ReconcileRequest{RosterFiles: []string{"m.csv"}, RawFiles: []string{"r.xlsx"}},
		},
		{
			name:       "bad format",
			req:        ReconcileRequest{OutputFormat: "pdf", RosterFiles: []string{"m.csv"}, RawFiles: []string{"r.xlsx"}},
			wantFields: []string{"output_format"},
		},
		{
			name:       "no files",
			req:        ReconcileRequest{OutputFormat: "csv"},
			wantFields: []string{"roster_files", "raw_files"},
		},
		{
			name:       "blank file name",
			req:        ReconcileRequest{RosterFiles: []string{""}, RawFiles: []string{"r.csv"}},
			wantFields: []string{"roster_files[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rv.ValidateStruct(tt.req)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apperrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			details, ok := apiErr.Details.(apperrors.ValidationErrors)
			require.True(t, ok)
			var fields []string
			for _, fe := range details.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestRequestValidator_ExtractRequest(t *testing.T) {
	rv := NewRequestValidator()
	assert.NoError(t, rv.ValidateStruct(ExtractRequest{ExcelFiles: []string{"a.xlsx"}}))

	err := rv.ValidateStruct(ExtractRequest{})
	require.Error(t, err)
	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Details.(apperrors.ValidationErrors).Errors[0].Message, "at least 1 excel_files")
}
