package snapshot_cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapmirror/snapshot_cache/models"
)

func newTestStore(t *testing.T) *DiskStore {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestDiskStore_SaveAndLoadAll(t *testing.T) {
	store := newTestStore(t)

	entry := &models.CacheEntry{
		ProjectID:   "project-1",
		Files:       models.ProjectSnapshot{"main.go": "package main\n"},
		Timestamp:   time.Now().Truncate(time.Second),
		Fingerprint: "abc123",
	}
	require.NoError(t, store.Save(entry))

	loaded := store.LoadAll()
	require.Len(t, loaded, 1)
	assert.Equal(t, "project-1", loaded[0].ProjectID)
	assert.Equal(t, "package main\n", loaded[0].Files["main.go"])
	assert.Equal(t, "abc123", loaded[0].Fingerprint)
	assert.True(t, entry.Timestamp.Equal(loaded[0].Timestamp))
}

func TestDiskStore_SaveReplacesPreviousVersion(t *testing.T) {
	store := newTestStore(t)

	first := &models.CacheEntry{ProjectID: "p", Files: models.ProjectSnapshot{"a": "1"}, Timestamp: time.Now()}
	second := &models.CacheEntry{ProjectID: "p", Files: models.ProjectSnapshot{"a": "2"}, Timestamp: time.Now()}
	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	loaded := store.LoadAll()
	require.Len(t, loaded, 1)
	assert.Equal(t, "2", loaded[0].Files["a"])
}

func TestDiskStore_CorruptEntriesAreSkipped(t *testing.T) {
	store := newTestStore(t)

	good := &models.CacheEntry{ProjectID: "good", Files: models.ProjectSnapshot{"a": "1"}, Timestamp: time.Now()}
	require.NoError(t, store.Save(good))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "garbage.snapshot"), []byte("not gob"), 0644))

	loaded := store.LoadAll()
	require.Len(t, loaded, 1)
	assert.Equal(t, "good", loaded[0].ProjectID)
}

func TestDiskStore_DeleteAndClear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&models.CacheEntry{ProjectID: "p1", Files: models.ProjectSnapshot{"a": "1"}, Timestamp: time.Now()}))
	require.NoError(t, store.Save(&models.CacheEntry{ProjectID: "p2", Files: models.ProjectSnapshot{"b": "2"}, Timestamp: time.Now()}))

	require.NoError(t, store.Delete("p1"))
	assert.Len(t, store.LoadAll(), 1)

	// Deleting an absent entry is not an error.
	require.NoError(t, store.Delete("p1"))

	require.NoError(t, store.Clear())
	assert.Empty(t, store.LoadAll())

	count, size, err := store.FileCount()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, size)
}

func TestDiskStore_ClearLeavesForeignFilesAlone(t *testing.T) {
	store := newTestStore(t)

	foreign := filepath.Join(store.Dir(), "notes.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0644))
	require.NoError(t, store.Save(&models.CacheEntry{ProjectID: "p", Files: models.ProjectSnapshot{"a": "1"}, Timestamp: time.Now()}))

	require.NoError(t, store.Clear())
	_, err := os.Stat(foreign)
	assert.NoError(t, err)
}

func TestSnapshotCache_RestoresFromDiskStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	first := NewSnapshotCache(nil, nil, store)
	first.CacheProjectFiles("persisted", models.ProjectSnapshot{"main.go": "package main\n"})
	first.Close()

	reopened, err := NewDiskStore(dir)
	require.NoError(t, err)
	second := NewSnapshotCache(nil, nil, reopened)
	defer second.Close()

	files := second.GetCachedProjectFiles("persisted")
	require.NotNil(t, files)
	assert.Equal(t, "package main\n", files["main.go"])
}
