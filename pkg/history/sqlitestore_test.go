package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFileStorePragmas(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	var journalMode string
	require.NoError(t, store.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, store.db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 10000, busyTimeout)

	assert.NotContains(t, dsn("history.db"), "_busy_timeout=")
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	first := &models.SearchRecord{Question: "campagnes actives", Endpoint: "/api/search", Strategy: "keyword", Query: "SELECT 1", RowCount: 3, CreatedAt: base}
	second := &models.SearchRecord{Question: "événements à Paris", Endpoint: "/api/search/semantic", Strategy: "fallback", Query: "SELECT 2", Error: "quota", CreatedAt: base.Add(time.Minute)}

	require.NoError(t, store.Record(ctx, first))
	require.NoError(t, store.Record(ctx, second))
	assert.NotEmpty(t, first.ID)

	records, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, "quota", records[0].Error)
	assert.Equal(t, "fallback", records[0].Strategy)
	assert.True(t, records[0].CreatedAt.Equal(second.CreatedAt))

	assert.Equal(t, "campagnes actives", records[1].Question)
	assert.Equal(t, 3, records[1].RowCount)
	assert.Empty(t, records[1].Error)
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, &models.SearchRecord{Question: "q", Endpoint: "/api/search", Strategy: "keyword", Query: "SELECT 1"}))
	}

	records, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestListEmpty(t *testing.T) {
	records, err := newTestStore(t).List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	require.NoError(t, s.Record(context.Background(), &models.SearchRecord{}))
	records, err := s.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}
