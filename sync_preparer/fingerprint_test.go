package sync_preparer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"snapmirror/snapshot_cache/models"
)

func TestSnapshotFingerprint_StableAcrossIdenticalSnapshots(t *testing.T) {
	a := models.ProjectSnapshot{"a.txt": "1", "b.txt": "2", "c/d.txt": "3"}
	b := models.ProjectSnapshot{"c/d.txt": "3", "a.txt": "1", "b.txt": "2"}

	assert.Equal(t, SnapshotFingerprint(a), SnapshotFingerprint(b))
}

func TestSnapshotFingerprint_DetectsContentChange(t *testing.T) {
	a := models.ProjectSnapshot{"a.txt": "1"}
	b := models.ProjectSnapshot{"a.txt": "2"}

	assert.NotEqual(t, SnapshotFingerprint(a), SnapshotFingerprint(b))
}

func TestSnapshotFingerprint_DetectsPathChange(t *testing.T) {
	a := models.ProjectSnapshot{"a.txt": "1"}
	b := models.ProjectSnapshot{"b.txt": "1"}

	assert.NotEqual(t, SnapshotFingerprint(a), SnapshotFingerprint(b))
}

func TestSnapshotFingerprint_PathContentBoundary(t *testing.T) {
	// The separator keeps "ab"+"c" distinct from "a"+"bc".
	a := models.ProjectSnapshot{"ab": "c"}
	b := models.ProjectSnapshot{"a": "bc"}

	assert.NotEqual(t, SnapshotFingerprint(a), SnapshotFingerprint(b))
}
