package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")

	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "schema error is verbatim",
			err:  NewSchemaError("Sheet 'Attendance' not found in the file."),
			want: "Sheet 'Attendance' not found in the file.",
		},
		{
			name: "formatted schema error",
			err:  NewSchemaErrorf("No '%s' column found.", "Name"),
			want: "No 'Name' column found.",
		},
		{
			name: "validation error",
			err:  NewAppValidationError("unsupported output format"),
			want: "[VALIDATION] unsupported output format",
		},
		{
			name: "parsing error with cause",
			err:  NewParsingError("failed to open meeting.xlsx", cause),
			want: "[PARSING] failed to open meeting.xlsx: zip: not a valid zip file",
		},
		{
			name: "storage error",
			err:  NewStorageError("failed to write report", nil),
			want: "[STORAGE] failed to write report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("failed to write report", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, fmt.Errorf("batch: %w", err), cause)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewSchemaError("Raw file needs a 'Name' column.").
		WithContext("file", "raw.csv").
		WithContext("row", 1)

	assert.Equal(t, "raw.csv", err.Context["file"])
	assert.Equal(t, 1, err.Context["row"])

	bare := &AppError{Type: ErrTypeStorage}
	bare.WithContext("key", "value")
	assert.Equal(t, "value", bare.Context["key"])
}

func TestTypePredicates(t *testing.T) {
	schema := NewSchemaError("No 'Name' column found.")
	wrapped := fmt.Errorf("extract meeting.xlsx: %w", schema)

	assert.True(t, IsSchemaError(schema))
	assert.True(t, IsSchemaError(wrapped))
	assert.False(t, IsValidationError(wrapped))

	assert.True(t, IsValidationError(NewAppValidationError("bad")))
	assert.True(t, IsType(NewParsingError("bad", nil), ErrTypeParsing))
	assert.False(t, IsSchemaError(errors.New("plain")))
	assert.False(t, IsSchemaError(nil))
}

func TestNewAppError(t *testing.T) {
	err := NewAppError(ErrTypeStorage, "msg", nil)
	require.NotNil(t, err.Context)
	assert.Equal(t, ErrTypeStorage, err.Type)
	assert.Nil(t, err.Unwrap())
}
