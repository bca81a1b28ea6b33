package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// Every path is absolute once resolved.
type Paths struct {
	BaseDir    string
	DataDir    string
	UploadsDir string
	OutputDir  string
	LogsDir    string
}

// ResolvePaths turns the configured paths into absolute paths. When BaseDir is
// empty the directory of the running executable is used, never the working
// directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		exeDir, err := executableDir()
		if err != nil {
			return nil, err
		}
		base = exeDir
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	dataDir := resolve(cfg.DataDir)
	outputDir := resolve(cfg.OutputDir)
	if outputDir == "" {
		outputDir = filepath.Join(dataDir, OutputsDirName)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    dataDir,
		UploadsDir: filepath.Join(dataDir, UploadsDirName),
		OutputDir:  outputDir,
		LogsDir:    resolve(cfg.LogsDir),
	}, nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()

	for _, dir := range []string{p.DataDir, p.UploadsDir, p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetUploadPath returns the path for an uploaded file within a request directory
func (p *Paths) GetUploadPath(requestID, filename string) string {
	return filepath.Join(p.UploadsDir, requestID, filepath.Base(filename))
}

// GetOutputPath returns the path for a generated artifact
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved directories for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("uploads", p.UploadsDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		))
}
