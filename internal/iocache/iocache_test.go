package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/ratechart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetManager clears the process-wide manager so each test starts fresh.
func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(func() {
		CloseCaching()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &CacheStoreManager{}
	})
}

func TestInitCaching(t *testing.T) {
	t.Run("sqlite cache and history", func(t *testing.T) {
		resetManager(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		historyPath := filepath.Join(dir, "history.db")

		err := InitCaching(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, historyPath)
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetCacheStore())
		assert.NotNil(t, Manager.GetHistoryStore())
		assert.FileExists(t, cachePath)
		assert.FileExists(t, historyPath)
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetManager(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")

		for range 3 {
			assert.NoError(t, InitCaching(schema.SQLiteBackend, cachePath, "", ""))
		}
		CloseCaching()
		CloseCaching()
	})

	t.Run("none backend", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitCaching(schema.NoneBackend, "", schema.NoneBackend, ""))

		store := Manager.GetCacheStore()
		require.NotNil(t, store)
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
	})

	t.Run("empty backends leave stores unset", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitCaching("", "", "", ""))
		assert.Nil(t, Manager.GetCacheStore())
		assert.Nil(t, Manager.GetHistoryStore())
	})

	t.Run("history failure closes cache", func(t *testing.T) {
		resetManager(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")
		err := InitCaching(schema.SQLiteBackend, cachePath, schema.DatabaseBackend("oracle"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "history store")
		assert.Nil(t, Manager.GetCacheStore())
	})
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(viewTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Set("k", []byte("v"), 1, time.Now().Unix()))
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
		assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	})

	t.Run("unknown backend", func(t *testing.T) {
		assert.Error(t, ClearHistory(schema.DatabaseBackend("oracle"), "", ""))
	})
}

func TestMigrateHistory(t *testing.T) {
	t.Run("up down and pinned version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.db")
		var buf bytes.Buffer

		require.NoError(t, MigrateHistory(&buf, schema.SQLiteBackend, path, -1))
		assert.Contains(t, buf.String(), "to version 2")

		buf.Reset()
		require.NoError(t, MigrateHistory(&buf, schema.SQLiteBackend, path, -1))
		assert.Contains(t, buf.String(), "already at the latest version")

		buf.Reset()
		require.NoError(t, MigrateHistory(&buf, schema.SQLiteBackend, path, 0))
		assert.Contains(t, buf.String(), "rolled back")

		buf.Reset()
		require.NoError(t, MigrateHistory(&buf, schema.SQLiteBackend, path, 1))
		assert.Contains(t, buf.String(), "to version 1")
	})

	t.Run("migrated schema works with the store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.db")
		require.NoError(t, MigrateHistory(&bytes.Buffer{}, schema.SQLiteBackend, path, -1))

		store, err := NewHistoryStore(schema.SQLiteBackend, path)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		runID, err := store.BeginRun(time.Now(), "d.json", schema.DayGranularity, nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordPoints(runID, samplePoints()))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.Error(t, MigrateHistory(&bytes.Buffer{}, schema.NoneBackend, "", -1))
	})
}

func TestPrintStatus(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)

	t.Run("cache connected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintCacheStatus(&buf, schema.CacheStatus{
			Backend: "sqlite", Connected: true, TotalEntries: 2,
			LastEntryTime: ts, OldestEntryTime: ts, TableSizeBytes: 4096,
		})
		out := buf.String()
		assert.Contains(t, out, "Cache Backend: sqlite")
		assert.Contains(t, out, "Total Entries: 2")
		assert.Contains(t, out, "Last Entry: 2025-01-02 03:04:05")
		assert.Contains(t, out, "Table Size: 4096 bytes")
	})

	t.Run("cache disconnected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
		assert.NotContains(t, buf.String(), "Total Entries")
	})

	t.Run("history", func(t *testing.T) {
		var buf bytes.Buffer
		PrintHistoryStatus(&buf, schema.HistoryStatus{
			Backend: "sqlite", Connected: true, TotalRuns: 1, LastRunID: 9,
			LastRunTime: ts, OldestRunTime: ts, TotalPoints: 12,
			TableSizes: map[string]int64{runsTable: 1, runPointsTable: 12},
		})
		out := buf.String()
		assert.Contains(t, out, "Last Run ID: 9")
		assert.Contains(t, out, "Total Points Plotted: 12")
		// Tables are listed alphabetically
		assert.Less(t, bytes.Index(buf.Bytes(), []byte(runPointsTable)), bytes.Index(buf.Bytes(), []byte(runsTable+":")))
	})
}
