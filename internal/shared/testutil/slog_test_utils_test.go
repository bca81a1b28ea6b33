package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	t.Run("captures records in order", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		logger.Info("roster loaded", slog.String("file", "master.xlsx"))
		logger.Error("raw file rejected", slog.Int("rows", 0))

		entries := logs.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "roster loaded", entries[0].Message)
		assert.Equal(t, slog.LevelError, entries[1].Level)
		assert.True(t, logs.ContainsMessage("rejected"))
		assert.True(t, logs.ContainsAttr("file", "master.xlsx"))
		assert.False(t, logs.ContainsAttr("file", "other.xlsx"))
	})

	t.Run("find filters by level", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		logger.Debug("scored candidate")
		logger.Warn("scored below threshold")

		assert.Len(t, logs.Find(slog.LevelWarn, "scored"), 1)
		assert.Empty(t, logs.Find(slog.LevelError, "scored"))
		AssertLogContains(t, logs, slog.LevelDebug, "candidate")
	})

	t.Run("derived loggers share the capture", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		logger.With("component", "matcher").Info("matched")
		logger.WithGroup("batch").Info("pair failed", slog.String("raw", "day1.csv"))
		logger.Info("grouped", slog.Group("pair", slog.Int("index", 2)))

		assert.Len(t, logs.Entries(), 3)
		assert.True(t, logs.ContainsAttr("component", "matcher"))
		assert.True(t, logs.ContainsAttr("batch.raw", "day1.csv"))
		assert.True(t, logs.ContainsAttr("pair.index", int64(2)))
	})
}
