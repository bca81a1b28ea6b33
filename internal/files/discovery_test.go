package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTabularFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.csv", "~$b.xlsx", "notes.txt", "c.XLSM"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	found, err := NewDiscovery(dir).FindTabularFiles(".")
	require.NoError(t, err)

	var names []string
	for _, f := range found {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.csv", "b.xlsx", "c.XLSM"}, names)
	assert.Equal(t, filepath.Join(dir, "a.csv"), Paths(found)[0])

	excel, err := NewDiscovery("").FindExcelFiles(dir)
	require.NoError(t, err)
	assert.Len(t, excel, 2)
}

func TestFindTabularFiles_MissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindTabularFiles("missing")
	assert.Error(t, err)
}

func TestListDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "one"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), nil, 0644))

	dirs, err := NewDiscovery(dir).ListDirectories("")
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Equal(t, "one", dirs[0].Name)
	assert.True(t, dirs[0].IsDir)
}

func TestListDirectories_Missing(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).ListDirectories("gone")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestModifiedBefore(t *testing.T) {
	now := time.Now()
	found := []FileInfo{
		{Name: "old", ModTime: now.Add(-2 * time.Hour)},
		{Name: "new", ModTime: now},
	}

	stale := ModifiedBefore(found, now.Add(-time.Hour))
	require.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].Name)
	assert.Empty(t, ModifiedBefore(found, now.Add(-3*time.Hour)))
}
