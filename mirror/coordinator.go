// Package mirror wires the acquisition engine, snapshot cache, and sync
// preparer into the pipeline the diff and commit logic consumes.
package mirror

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	acquisition_contracts "snapmirror/acquisition/contracts"
	cache_contracts "snapmirror/snapshot_cache/contracts"
	"snapmirror/snapshot_cache/models"
	"snapmirror/sync_preparer"
	"snapmirror/utils"
)

// Coordinator serves project snapshots cache-first, acquiring a fresh archive
// from the host page on a miss. It subscribes to the cache's refresh
// notifications and proactively re-acquires stale projects in the background.
type Coordinator struct {
	cache    cache_contracts.ISnapshotCache
	engine   acquisition_contracts.IAcquisitionEngine
	preparer *sync_preparer.SyncPreparer
	handle   int
}

// NewCoordinator builds a coordinator and registers it for refresh
// notifications. Close releases the registration.
func NewCoordinator(cache cache_contracts.ISnapshotCache, engine acquisition_contracts.IAcquisitionEngine) *Coordinator {
	c := &Coordinator{
		cache:    cache,
		engine:   engine,
		preparer: sync_preparer.NewSyncPreparer(),
	}
	c.handle = cache.OnCacheRefreshNeeded(c.onRefreshNeeded)
	return c
}

// GetProjectFiles returns the project's snapshot, from cache when fresh,
// otherwise via a new acquisition.
func (c *Coordinator) GetProjectFiles(ctx context.Context, projectID string) (models.ProjectSnapshot, error) {
	if files := c.cache.GetCachedProjectFiles(projectID); files != nil {
		return files, nil
	}
	return c.acquireAndCache(ctx, projectID)
}

// PrepareProject returns the project's prepared file list: ignore-filtered,
// hashed, and sorted, ready for diffing against the remote repository.
func (c *Coordinator) PrepareProject(ctx context.Context, projectID string) ([]sync_preparer.PreparedFile, error) {
	files, err := c.GetProjectFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return c.preparer.Prepare(files), nil
}

// acquireAndCache runs one full acquisition. Nothing is cached unless the
// archive both downloads and unpacks cleanly; a failed acquisition never
// leaves a partial snapshot behind.
func (c *Coordinator) acquireAndCache(ctx context.Context, projectID string) (models.ProjectSnapshot, error) {
	payload, err := c.engine.AcquireSnapshotArchive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire snapshot for project %s: %w", projectID, err)
	}
	files, err := utils.ExtractArchive(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack snapshot archive for project %s: %w", projectID, err)
	}
	c.cache.CacheProjectFiles(projectID, files)
	return files, nil
}

// onRefreshNeeded re-acquires one stale project. Failures are logged and
// isolated: the stale entry simply stays until the next pass.
func (c *Coordinator) onRefreshNeeded(projectID string) {
	if _, err := c.acquireAndCache(context.Background(), projectID); err != nil {
		logrus.WithField("project", projectID).WithError(err).Warn("background snapshot refresh failed")
		return
	}
	logrus.WithField("project", projectID).Debug("background snapshot refresh complete")
}

// Close unregisters the coordinator from cache refresh notifications.
func (c *Coordinator) Close() {
	c.cache.RemoveRefreshCallback(c.handle)
}
