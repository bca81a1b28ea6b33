package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "attendancify/internal/errors"
	"attendancify/internal/shared/testutil"
	"attendancify/pkg/contracts/domain"
)

func TestPairFiles(t *testing.T) {
	pairs := PairFiles([]string{"r1", "r2", "r3"}, []string{"w1", "w2"})
	assert.Equal(t, []Pair{{"r1", "w1"}, {"r2", "w2"}}, pairs)
	assert.Empty(t, PairFiles(nil, []string{"w1"}))
}

func batchFixtures(t *testing.T, dir string) (good []Pair, bad Pair) {
	t.Helper()
	for _, n := range []string{"a", "b", "c"} {
		good = append(good, Pair{
			RosterPath: writeRoster(t, dir, "roster_"+n+".csv"),
			RawPath:    writeRaw(t, dir, "raw_"+n+".xlsx"),
		})
	}
	bad = Pair{
		RosterPath: writeRoster(t, dir, "roster_bad.csv"),
		RawPath:    testutil.WriteCSV(t, dir, "raw_bad.csv", [][]string{{"Who", "S1"}, {"A", "P"}}),
	}
	return good, bad
}

func TestRunBatch_AllSucceed(t *testing.T) {
	dir := t.TempDir()
	pairs, _ := batchFixtures(t, dir)
	svc := newTestService(t, ReconcileOptions{BatchWorkers: 2})

	results, err := svc.RunBatch(context.Background(), pairs, domain.OutputFormatXLSX, BatchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, pairs[i], r.Pair)
		assert.FileExists(t, r.Artifact.Primary)
	}
	assert.Len(t, Artifacts(results), 3)
	assert.Equal(t, filepath.Join(dir, "roster_b_matched_with_raw_b_attendance.xlsx"), results[1].Artifact.Primary)
}

func TestRunBatch_AbortsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	good, bad := batchFixtures(t, dir)
	pairs := []Pair{good[0], bad, good[1]}
	svc := newTestService(t, ReconcileOptions{BatchWorkers: 1})

	results, err := svc.RunBatch(context.Background(), pairs, domain.OutputFormatCSV, BatchOptions{})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, apperrors.IsSchemaError(err))
	assert.Equal(t, "Raw file needs a 'Name' column.", err.Error())

	matches, globErr := filepath.Glob(filepath.Join(dir, "*_matched_with_*"))
	require.NoError(t, globErr)
	assert.Empty(t, matches)
}

func TestRunBatch_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	good, bad := batchFixtures(t, dir)
	pairs := []Pair{good[0], bad, good[1]}
	out := filepath.Join(dir, "reports")
	svc := newTestService(t, ReconcileOptions{BatchWorkers: 3})

	results, err := svc.RunBatch(context.Background(), pairs, domain.OutputFormatXLSX,
		BatchOptions{ContinueOnError: true, OutputDir: out})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.True(t, apperrors.IsSchemaError(results[1].Err))
	assert.NoError(t, results[2].Err)

	entries, readErr := os.ReadDir(out)
	require.NoError(t, readErr)
	assert.Len(t, entries, 2)
	assert.Len(t, Artifacts(results), 2)
}

func TestRunBatch_InvalidFormat(t *testing.T) {
	svc := newTestService(t, ReconcileOptions{})
	_, err := svc.RunBatch(context.Background(), nil, "docx", BatchOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestRunBatch_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	pairs, _ := batchFixtures(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(t, ReconcileOptions{})
	_, err := svc.RunBatch(ctx, pairs, domain.OutputFormatXLSX, BatchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
