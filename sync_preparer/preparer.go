package sync_preparer

import (
	"sort"

	"snapmirror/snapshot_cache/models"
)

// PreparedFile is one file ready for diffing against the remote repository:
// filtered, with its content-address hash precomputed over the raw content
// and a normalized form for order- and whitespace-independent comparison.
type PreparedFile struct {
	Path       string
	Content    string
	Normalized string
	Hash       string
}

// SyncPreparer turns a raw project snapshot into the prepared file list the
// diff and commit pipeline consumes.
type SyncPreparer struct{}

func NewSyncPreparer() *SyncPreparer {
	return &SyncPreparer{}
}

// Prepare filters the snapshot by its active ignore rules and computes the
// content-address hash for every surviving file. The result is sorted by path
// so downstream consumers see a deterministic order.
func (p *SyncPreparer) Prepare(files models.ProjectSnapshot) []PreparedFile {
	filtered := FilterByIgnoreRules(files)

	prepared := make([]PreparedFile, 0, len(filtered))
	for path, content := range filtered {
		prepared = append(prepared, PreparedFile{
			Path:       path,
			Content:    content,
			Normalized: NormalizeForComparison(content),
			Hash:       ComputeContentHash(content),
		})
	}
	sort.Slice(prepared, func(i, j int) bool {
		return prepared[i].Path < prepared[j].Path
	})
	return prepared
}
