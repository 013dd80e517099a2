package snapshot_cache

import (
	"bytes"
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"snapmirror/snapshot_cache/models"
)

const cacheFileSuffix = ".snapshot"

// DiskStore persists cache entries as gob blobs so a restarted process can
// resume with warm snapshots. All operations are best effort: the in-memory
// cache is authoritative and persistence failures only cost a refetch.
type DiskStore struct {
	dir   string
	mutex sync.Mutex
}

// NewDiskStore ensures dir exists and returns a store rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(cwd, ".snapmirror-cache")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot store directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) entryPath(projectID string) string {
	sum := md5.Sum([]byte(projectID))
	return filepath.Join(s.dir, fmt.Sprintf("%x%s", sum, cacheFileSuffix))
}

// Save writes one entry to disk, replacing any previous version.
func (s *DiskStore) Save(entry *models.CacheEntry) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode snapshot entry: %w", err)
	}
	if err := os.WriteFile(s.entryPath(entry.ProjectID), buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot entry: %w", err)
	}
	return nil
}

// Delete removes one project's persisted entry.
func (s *DiskStore) Delete(projectID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.Remove(s.entryPath(projectID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot entry: %w", err)
	}
	return nil
}

// Clear removes every persisted entry.
func (s *DiskStore) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read snapshot store directory: %w", err)
	}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), cacheFileSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, file.Name())); err != nil {
			return fmt.Errorf("failed to delete %s: %w", file.Name(), err)
		}
	}
	return nil
}

// LoadAll reads every persisted entry. Corrupt files are logged and skipped.
func (s *DiskStore) LoadAll() []*models.CacheEntry {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		logrus.WithError(err).Warn("failed to read snapshot store directory")
		return nil
	}

	var entries []*models.CacheEntry
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), cacheFileSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, file.Name()))
		if err != nil {
			logrus.WithField("file", file.Name()).WithError(err).Warn("failed to read snapshot entry")
			continue
		}
		var entry models.CacheEntry
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
			logrus.WithField("file", file.Name()).WithError(err).Warn("skipping corrupt snapshot entry")
			continue
		}
		entries = append(entries, &entry)
	}
	return entries
}

// FileCount reports how many entries are currently persisted.
func (s *DiskStore) FileCount() (int, int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read snapshot store directory: %w", err)
	}
	count := 0
	var size int64
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), cacheFileSuffix) {
			continue
		}
		count++
		if info, err := file.Info(); err == nil {
			size += info.Size()
		}
	}
	return count, size, nil
}
