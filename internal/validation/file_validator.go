package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "attendancify/internal/errors"
)

// Accepted input extensions
var (
	WorkbookExtensions = []string{".xlsx", ".xlsm"}
	TabularExtensions  = []string{".xlsx", ".xlsm", ".csv"}
)

// FileValidator checks input files before they reach the readers
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger.With("component", "file_validator")}
}

// ValidateFile checks that path exists, is a regular file and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s does not exist", path))
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks a meeting export for extraction
func (v *FileValidator) ValidateWorkbook(path string) error {
	return v.validateWithExtension(path, WorkbookExtensions, "an Excel workbook")
}

// ValidateTabularFile checks a roster or raw file for matching
func (v *FileValidator) ValidateTabularFile(path string) error {
	return v.validateWithExtension(path, TabularExtensions, "a CSV or Excel file")
}

func (v *FileValidator) validateWithExtension(path string, exts []string, kind string) error {
	if err := CheckFileName(filepath.Base(path), exts, kind); err != nil {
		v.logger.Error("Unsupported input file", slog.String("file", path))
		return err
	}
	return v.ValidateFile(path)
}

// CheckFileName validates an upload name before anything is stored.
// Office lock files (~$name.xlsx) are rejected.
func CheckFileName(name string, exts []string, kind string) error {
	if strings.HasPrefix(name, "~$") {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a temporary Excel file", name))
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return nil
		}
	}
	return apperrors.NewAppValidationError(fmt.Sprintf("%s is not %s (extension: %q)", name, kind, ext))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
