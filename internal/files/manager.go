package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"attendancify/internal/config"
	apperrors "attendancify/internal/errors"
)

// Manager owns the per-invocation work directories under the uploads dir
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger.With("component", "files")}
}

// Workspace is a private directory for one invocation. Uploaded files keep
// their original names so report names derived from them stay meaningful.
type Workspace struct {
	ID  string
	Dir string

	count  int
	logger *slog.Logger
}

// NewWorkspace creates a fresh uploads/<uuid> directory
func (m *Manager) NewWorkspace() (*Workspace, error) {
	id := uuid.NewString()
	dir := filepath.Join(m.paths.UploadsDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create work directory", err)
	}

	m.logger.Debug("Workspace created", slog.String("workspace_id", id), slog.String("dir", dir))
	return &Workspace{ID: id, Dir: dir, logger: m.logger.With("workspace_id", id)}, nil
}

// OutputDir returns the workspace directory reports are written to
func (w *Workspace) OutputDir() string {
	return filepath.Join(w.Dir, "out")
}

// Save copies r into the workspace as name. Every saved file gets its own
// subdirectory so two uploads with the same name never collide.
func (w *Workspace) Save(name string, r io.Reader) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return "", apperrors.NewAppValidationError("uploaded file has no name")
	}

	w.count++
	dir := filepath.Join(w.Dir, "in", strconv.Itoa(w.count))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create upload directory", err)
	}

	path := filepath.Join(dir, base)
	dst, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to store upload", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, r)
	if err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to store %s", base), err)
	}

	w.logger.Debug("Upload stored", slog.String("file", base), slog.Int64("size_bytes", n))
	return path, dst.Close()
}

// SaveMultipart stores an uploaded multipart file
func (w *Workspace) SaveMultipart(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperrors.NewStorageError("failed to read upload", err)
	}
	defer src.Close()
	return w.Save(fh.Filename, src)
}

// Cleanup removes the workspace and everything in it
func (w *Workspace) Cleanup() {
	if err := os.RemoveAll(w.Dir); err != nil {
		w.logger.Warn("Failed to remove workspace", slog.String("error", err.Error()))
	}
}

// CleanupOlderThan removes workspaces last modified before maxAge ago and
// returns how many were removed.
func (m *Manager) CleanupOlderThan(maxAge time.Duration) (int, error) {
	dirs, err := NewDiscovery(m.paths.UploadsDir).ListDirectories("")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, d := range ModifiedBefore(dirs, cutoff) {
		if err := os.RemoveAll(d.Path); err != nil {
			m.logger.Warn("Failed to remove stale workspace",
				slog.String("dir", d.Path),
				slog.String("error", err.Error()))
			continue
		}
		removed++
	}

	if removed > 0 {
		m.logger.Info("Removed stale workspaces", slog.Int("count", removed))
	}
	return removed, nil
}
