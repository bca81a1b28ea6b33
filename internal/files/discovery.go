package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// FileInfo describes one directory entry found by Discovery
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery lists input files and workspaces. Relative directories are
// resolved against basePath.
type Discovery struct {
	basePath string
}

func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindTabularFiles returns the workbooks and CSV files in dir sorted by
// name. Office lock files (~$name.xlsx) are skipped.
func (d *Discovery) FindTabularFiles(dir string) ([]FileInfo, error) {
	return d.scan(dir, withExtension(".xlsx", ".xlsm", ".csv"))
}

// FindExcelFiles is FindTabularFiles without CSV files
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	return d.scan(dir, withExtension(".xlsx", ".xlsm"))
}

// ListDirectories returns the subdirectories of dir. A missing dir yields an
// error satisfying errors.Is(err, fs.ErrNotExist).
func (d *Discovery) ListDirectories(dir string) ([]FileInfo, error) {
	return d.scan(dir, fs.DirEntry.IsDir)
}

func withExtension(exts ...string) func(fs.DirEntry) bool {
	return func(e fs.DirEntry) bool {
		name := e.Name()
		return !e.IsDir() && !strings.HasPrefix(name, "~$") &&
			slices.Contains(exts, strings.ToLower(filepath.Ext(name)))
	}
}

func (d *Discovery) scan(dir string, keep func(fs.DirEntry) bool) ([]FileInfo, error) {
	full := dir
	if !filepath.IsAbs(dir) {
		full = filepath.Join(d.basePath, dir)
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", full, err)
	}

	var out []FileInfo
	for _, e := range entries {
		if !keep(e) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		out = append(out, FileInfo{
			Path:    filepath.Join(full, e.Name()),
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   e.IsDir(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Paths returns the Path of every entry
func Paths(found []FileInfo) []string {
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.Path
	}
	return out
}

// ModifiedBefore keeps the entries last modified before cutoff
func ModifiedBefore(found []FileInfo, cutoff time.Time) []FileInfo {
	var out []FileInfo
	for _, f := range found {
		if f.ModTime.Before(cutoff) {
			out = append(out, f)
		}
	}
	return out
}
