package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/yoinker/passage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test history store
func createTestStore(t *testing.T) *Store {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err, "should create history store")
	t.Cleanup(func() { store.Close() })
	return store
}

var john3 = passage.Reference{Version: "NIV", Book: "John", Chapter: "3"}

// TestNewRecord verifies the derived fields of a record
func TestNewRecord(t *testing.T) {
	rec := NewRecord("BG", john3, passage.MustParseSelector("16-17"), "For God so loved the world")

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "BG", rec.Method)
	assert.Equal(t, "16-17", rec.Verses)
	assert.Equal(t, len("For God so loved the world"), rec.Length)
	assert.Len(t, rec.Digest, 64)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Minute)
	assert.Equal(t, john3, rec.Reference())

	// Same text, same digest
	other := NewRecord("GPT", john3, nil, "For God so loved the world")
	assert.Equal(t, rec.Digest, other.Digest)
	assert.Empty(t, other.Verses)
}

// TestStore_RecordAndGet verifies a record round trips through the store
func TestStore_RecordAndGet(t *testing.T) {
	store := createTestStore(t)

	rec := NewRecord("BG", john3, passage.MustParseSelector("16"), "For God so loved the world")
	require.NoError(t, store.Record(rec))

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Method, got.Method)
	assert.Equal(t, rec.Reference(), got.Reference())
	assert.Equal(t, rec.Verses, got.Verses)
	assert.Equal(t, rec.Digest, got.Digest)
	assert.Equal(t, rec.Length, got.Length)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

// TestStore_GetNotFound verifies unknown IDs fail
func TestStore_GetNotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Get(uuid.New())
	assert.EqualError(t, err, "lookup not found")
}

// TestStore_ListNewestFirst verifies ordering and the limit
func TestStore_ListNewestFirst(t *testing.T) {
	store := createTestStore(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, chapter := range []string{"1", "2", "3"} {
		rec := NewRecord("BG", passage.Reference{Version: "NIV", Book: "Mark", Chapter: chapter}, nil, "text")
		rec.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Record(rec))
	}

	records, err := store.List(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "3", records[0].Chapter)
	assert.Equal(t, "2", records[1].Chapter)

	all, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestStore_ListEmpty verifies an empty store lists nothing
func TestStore_ListEmpty(t *testing.T) {
	store := createTestStore(t)

	records, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestNewStore_Reopen verifies records survive reopening the database
func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	rec := NewRecord("GPT", john3, nil, "text")
	require.NoError(t, store.Record(rec))
	require.NoError(t, store.Close())

	store, err = NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "GPT", got.Method)
}

// TestStore_BadTimestamp verifies a corrupt created_at is reported
func TestStore_BadTimestamp(t *testing.T) {
	store := createTestStore(t)

	rec := NewRecord("BG", john3, nil, "For God so loved the world")
	require.NoError(t, store.Record(rec))

	_, err := store.db.Exec(`UPDATE lookups SET created_at = 'yesterday' WHERE lookup_id = ?`, rec.ID.String())
	require.NoError(t, err)

	_, err = store.Get(rec.ID)
	assert.ErrorContains(t, err, `invalid created_at "yesterday"`)

	_, err = store.List(10)
	assert.ErrorContains(t, err, `invalid created_at "yesterday"`)
}
