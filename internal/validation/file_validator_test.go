package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "attendancify/internal/errors"
)

func TestFileValidator_ValidateFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "regular file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "roster.csv")
				require.NoError(t, os.WriteFile(path, []byte("Email,Participant Name\n"), 0644))
				return path
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFile(tt.setupFunc(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.True(t, apperrors.IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckFileName(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		exts    []string
		wantErr bool
	}{
		{"workbook", "meeting.xlsx", WorkbookExtensions, false},
		{"uppercase extension", "MEETING.XLSX", WorkbookExtensions, false},
		{"macro workbook", "meeting.xlsm", WorkbookExtensions, false},
		{"csv is not a workbook", "meeting.csv", WorkbookExtensions, true},
		{"csv is tabular", "roster.csv", TabularExtensions, false},
		{"legacy xls", "roster.xls", TabularExtensions, true},
		{"lock file", "~$meeting.xlsx", WorkbookExtensions, true},
		{"no extension", "roster", TabularExtensions, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFileName(tt.file, tt.exts, "a supported file")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateTabularFile(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))

	v := NewFileValidator(nil)
	err := v.ValidateTabularFile(txt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a CSV or Excel file")

	err = v.ValidateWorkbook(filepath.Join(dir, "missing.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, NewFileValidator(nil).ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
