package sync_preparer

import (
	"fmt"
	"sort"

	"github.com/zeebo/xxh3"

	"snapmirror/snapshot_cache/models"
)

// SnapshotFingerprint computes a fast, order-independent fingerprint of a
// snapshot. Identical file maps always produce the same value, so callers can
// detect no-change refreshes without hashing every file individually. The
// fingerprint is not the content-address hash and never leaves the process.
func SnapshotFingerprint(files models.ProjectSnapshot) string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	hasher := xxh3.New()
	for _, path := range paths {
		hasher.WriteString(path)
		hasher.Write([]byte{0})
		hasher.WriteString(files[path])
		hasher.Write([]byte{0})
	}
	return fmt.Sprintf("%x", hasher.Sum128().Bytes())
}
