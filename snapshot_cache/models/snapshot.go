package models

import "time"

// ProjectSnapshot maps relative file paths to their text content. A snapshot
// is built fresh on every acquisition and treated as immutable once cached.
type ProjectSnapshot map[string]string

// Clone returns an independent copy of the snapshot.
func (s ProjectSnapshot) Clone() ProjectSnapshot {
	if s == nil {
		return nil
	}
	out := make(ProjectSnapshot, len(s))
	for path, content := range s {
		out[path] = content
	}
	return out
}

// CacheEntry holds one project's snapshot together with the moment it was
// stored. Entries are replaced wholesale on refresh, never partially mutated.
type CacheEntry struct {
	ProjectID   string          `json:"project_id"`
	Files       ProjectSnapshot `json:"files"`
	Timestamp   time.Time       `json:"timestamp"`
	Fingerprint string          `json:"fingerprint"`
}

// Age reports how old the entry is relative to now.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}
