package snapshot_cache

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"snapmirror/snapshot_cache/contracts"
	"snapmirror/snapshot_cache/models"
	"snapmirror/sync_preparer"
)

// DefaultMaxCacheAge is the TTL applied until SetMaxCacheAge overrides it.
const DefaultMaxCacheAge = 5 * time.Minute

const (
	// idleBudgetThreshold is the minimum remaining idle budget required for a
	// host-idle pass to run. Windows shorter than this are skipped.
	idleBudgetThreshold = 1000 * time.Millisecond
	// idleCallbackTimeout forces the idle callback to fire even if the host
	// never reports a natural idle window.
	idleCallbackTimeout = 10 * time.Second
)

type callbackRegistration struct {
	handle int
	fn     contracts.RefreshCallback
}

// SnapshotCache keeps per-project file maps with time-based staleness and two
// independent background-refresh triggers. It is an explicitly constructed
// component: the composition root owns it and calls Close for teardown.
type SnapshotCache struct {
	mu          sync.Mutex
	entries     map[string]*models.CacheEntry
	maxAge      time.Duration
	callbacks   []callbackRegistration
	nextHandle  int
	idleEnabled bool
	closed      bool

	scheduler  contracts.IIdleScheduler
	cancelIdle func()

	monitor     contracts.IUserIdleMonitor
	unsubscribe func()

	store *DiskStore

	stats CacheStats

	// now is swappable so TTL boundaries are testable.
	now func() time.Time
}

var _ contracts.ISnapshotCache = (*SnapshotCache)(nil)

// NewSnapshotCache builds a cache wired to the given idle facilities. Both
// scheduler and monitor may be nil; a missing facility disables only its own
// refresh trigger. store may be nil to keep the cache purely in memory.
func NewSnapshotCache(scheduler contracts.IIdleScheduler, monitor contracts.IUserIdleMonitor, store *DiskStore) *SnapshotCache {
	c := &SnapshotCache{
		entries:     make(map[string]*models.CacheEntry),
		maxAge:      DefaultMaxCacheAge,
		idleEnabled: true,
		scheduler:   scheduler,
		monitor:     monitor,
		store:       store,
		now:         time.Now,
	}

	if store != nil {
		for _, entry := range store.LoadAll() {
			c.entries[entry.ProjectID] = entry
		}
		if len(c.entries) > 0 {
			logrus.WithField("projects", len(c.entries)).Debug("snapshot cache restored from disk")
		}
	}

	if monitor != nil {
		c.unsubscribe = monitor.Subscribe(c.onUserIdleStateChange)
	}
	if scheduler != nil {
		c.mu.Lock()
		c.scheduleIdlePassLocked()
		c.mu.Unlock()
	}

	return c
}

// SetMaxCacheAge changes the TTL used by all subsequent staleness checks.
func (c *SnapshotCache) SetMaxCacheAge(maxAge time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAge = maxAge
}

// CacheProjectFiles inserts or replaces the entry for projectID, timestamped
// now. The snapshot is fingerprinted so repeated stores of identical content
// are observable in the stats.
func (c *SnapshotCache) CacheProjectFiles(projectID string, files models.ProjectSnapshot) {
	fingerprint := sync_preparer.SnapshotFingerprint(files)

	c.mu.Lock()
	entry := &models.CacheEntry{
		ProjectID:   projectID,
		Files:       files.Clone(),
		Timestamp:   c.now(),
		Fingerprint: fingerprint,
	}
	if prev, ok := c.entries[projectID]; ok && prev.Fingerprint == fingerprint {
		c.stats.recordUnchangedStore()
	}
	c.entries[projectID] = entry
	c.stats.recordStore()
	store := c.store
	c.mu.Unlock()

	if store != nil {
		if err := store.Save(entry); err != nil {
			logrus.WithField("project", projectID).WithError(err).Warn("failed to persist snapshot cache entry")
		}
	}
}

// GetCachedProjectFiles returns the stored snapshot only while the entry is
// within the TTL. A stale entry yields nil but is retained so the background
// refresh passes can still report it.
func (c *SnapshotCache) GetCachedProjectFiles(projectID string) models.ProjectSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[projectID]
	if !ok {
		c.stats.recordMiss()
		return nil
	}
	if entry.Age(c.now()) > c.maxAge {
		c.stats.recordMiss()
		return nil
	}
	c.stats.recordHit()
	return entry.Files
}

// InvalidateCache removes one project's entry immediately.
func (c *SnapshotCache) InvalidateCache(projectID string) {
	c.mu.Lock()
	delete(c.entries, projectID)
	store := c.store
	c.mu.Unlock()

	if store != nil {
		if err := store.Delete(projectID); err != nil {
			logrus.WithField("project", projectID).WithError(err).Warn("failed to remove persisted snapshot")
		}
	}
}

// ClearAllCaches removes every entry, including persisted ones.
func (c *SnapshotCache) ClearAllCaches() {
	c.mu.Lock()
	c.entries = make(map[string]*models.CacheEntry)
	store := c.store
	c.mu.Unlock()

	if store != nil {
		if err := store.Clear(); err != nil {
			logrus.WithError(err).Warn("failed to clear persisted snapshot store")
		}
	}
}

// OnCacheRefreshNeeded registers a callback invoked with a project id whenever
// that project needs refreshing during a background pass. The returned handle
// is passed to RemoveRefreshCallback to unregister.
func (c *SnapshotCache) OnCacheRefreshNeeded(cb contracts.RefreshCallback) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextHandle++
	c.callbacks = append(c.callbacks, callbackRegistration{handle: c.nextHandle, fn: cb})
	return c.nextHandle
}

// RemoveRefreshCallback unregisters a previously registered callback.
func (c *SnapshotCache) RemoveRefreshCallback(handle int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, reg := range c.callbacks {
		if reg.handle == handle {
			c.callbacks = append(c.callbacks[:i], c.callbacks[i+1:]...)
			return
		}
	}
}

// SetIdleRefreshEnabled toggles whether background refresh passes run at all.
// Disabling cancels any pending idle-callback registration.
func (c *SnapshotCache) SetIdleRefreshEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.idleEnabled == enabled {
		return
	}
	c.idleEnabled = enabled

	if !enabled {
		if c.cancelIdle != nil {
			c.cancelIdle()
			c.cancelIdle = nil
		}
		return
	}
	c.scheduleIdlePassLocked()
}

// Close tears the cache down: idle registrations are cancelled and the user
// idle subscription is released. The entry map is left intact.
func (c *SnapshotCache) Close() {
	c.mu.Lock()
	c.closed = true
	if c.cancelIdle != nil {
		c.cancelIdle()
		c.cancelIdle = nil
	}
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// scheduleIdlePassLocked registers the next host-idle pass. Caller holds mu.
func (c *SnapshotCache) scheduleIdlePassLocked() {
	if c.scheduler == nil || !c.idleEnabled || c.closed {
		return
	}
	c.cancelIdle = c.scheduler.RequestIdleCallback(c.onHostIdle, idleCallbackTimeout)
}

// onHostIdle runs one host-idle pass. Short windows are skipped unless the
// scheduler fired due to its enforced timeout. The pass re-registers itself
// after completing, forming a perpetual loop rather than a one-shot timer.
func (c *SnapshotCache) onHostIdle(deadline contracts.IdleDeadline) {
	if deadline.TimeRemaining() >= idleBudgetThreshold || deadline.DidTimeout() {
		c.refreshStaleEntries()
	}

	c.mu.Lock()
	c.cancelIdle = nil
	c.scheduleIdlePassLocked()
	c.mu.Unlock()
}

// onUserIdleStateChange reacts to the OS-level user idle monitor. Entering an
// idle or locked state refreshes every cached project unconditionally; the
// long idle period is the safe moment for proactive work.
func (c *SnapshotCache) onUserIdleStateChange(state contracts.UserIdleState) {
	if state != contracts.UserIdle && state != contracts.UserLocked {
		return
	}

	c.mu.Lock()
	if !c.idleEnabled || c.closed || len(c.entries) == 0 {
		c.mu.Unlock()
		return
	}
	projects := make([]string, 0, len(c.entries))
	for id := range c.entries {
		projects = append(projects, id)
	}
	callbacks := append([]callbackRegistration(nil), c.callbacks...)
	c.mu.Unlock()

	logrus.WithField("state", state).WithField("projects", len(projects)).Debug("user idle, refreshing all cached projects")
	c.notify(projects, callbacks)
	c.stats.recordRefreshPass()
}

// refreshStaleEntries notifies callbacks for every entry older than the TTL.
func (c *SnapshotCache) refreshStaleEntries() {
	c.mu.Lock()
	if !c.idleEnabled || c.closed {
		c.mu.Unlock()
		return
	}
	now := c.now()
	var stale []string
	for id, entry := range c.entries {
		if entry.Age(now) > c.maxAge {
			stale = append(stale, id)
		}
	}
	callbacks := append([]callbackRegistration(nil), c.callbacks...)
	c.mu.Unlock()

	if len(stale) == 0 {
		return
	}
	logrus.WithField("projects", len(stale)).Debug("host idle, refreshing stale projects")
	c.notify(stale, callbacks)
	c.stats.recordRefreshPass()
}

// notify fans a set of project ids out to the registered callbacks in
// registration order. A panicking callback is logged and must not prevent the
// remaining callbacks from running.
func (c *SnapshotCache) notify(projects []string, callbacks []callbackRegistration) {
	for _, projectID := range projects {
		for _, reg := range callbacks {
			c.invokeCallback(reg, projectID)
		}
	}
}

func (c *SnapshotCache) invokeCallback(reg callbackRegistration, projectID string) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("project", projectID).WithField("panic", r).Error("refresh callback panicked")
		}
	}()
	reg.fn(projectID)
}
