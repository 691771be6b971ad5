package iocache

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/ratechart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	connStr := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(viewTable, schema.SQLiteBackend, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestCacheStore_SQLite(t *testing.T) {
	t.Run("get missing key", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		_, _, _, err := store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set then get", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		require.NoError(t, store.Set("k", []byte(`{"zoomed":false}`), 1, 1700000000))

		value, version, ts, err := store.Get("k")
		require.NoError(t, err)
		assert.JSONEq(t, `{"zoomed":false}`, string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("set replaces existing key", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		require.NoError(t, store.Set("k", []byte("old"), 1, 100))
		require.NoError(t, store.Set("k", []byte("new"), 2, 200))

		value, version, ts, err := store.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "new", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(200), ts)
	})

	t.Run("status", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, 0, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("1"), 1, 100))
		require.NoError(t, store.Set("b", []byte("2"), 1, 300))

		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, int64(100), status.OldestEntryTime.Unix())
		assert.Equal(t, int64(300), status.LastEntryTime.Unix())
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})
}

func TestCacheStore_None(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Expected error from Get on none backend")

	assert.NoError(t, store.Set("test_key", []byte("test_value"), 1, 123456789))

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Set is a no-op on none backend")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)

	assert.NoError(t, store.Close())
}

func TestNewCacheStore_Errors(t *testing.T) {
	_, err := NewCacheStore("bad-name", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore("ok", schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "test_table", false},
		{"valid name with numbers", "test_table_123", false},
		{"valid leading underscore", "_private", false},
		{"empty name", "", true},
		{"leading digit", "1table", true},
		{"hyphen", "my-table", true},
		{"sql injection", "t; DROP TABLE users", true},
		{"space", "my table", true},
		{"quote", `t"x`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"runs"`},
		{schema.PostgreSQLBackend, `"runs"`},
		{schema.MySQLBackend, "`runs`"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("runs", tt.backend))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
}

func TestGetCreateTableQuery(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains string
	}{
		{schema.SQLiteBackend, "BLOB"},
		{schema.MySQLBackend, "LONGBLOB"},
		{schema.PostgreSQLBackend, "BYTEA"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			query := getCreateTableQuery(viewTable, tt.backend)
			assert.True(t, strings.Contains(query, tt.contains), query)
			assert.Contains(t, query, "IF NOT EXISTS")
		})
	}
}
