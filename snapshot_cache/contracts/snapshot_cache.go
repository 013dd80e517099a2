package contracts

import (
	"time"

	"snapmirror/snapshot_cache/models"
)

// RefreshCallback is notified with a project id when that project's entry is
// judged in need of a refresh during a background pass.
type RefreshCallback func(projectID string)

type ISnapshotCache interface {
	SetMaxCacheAge(maxAge time.Duration)
	CacheProjectFiles(projectID string, files models.ProjectSnapshot)
	GetCachedProjectFiles(projectID string) models.ProjectSnapshot
	InvalidateCache(projectID string)
	ClearAllCaches()
	OnCacheRefreshNeeded(cb RefreshCallback) int
	RemoveRefreshCallback(handle int)
	SetIdleRefreshEnabled(enabled bool)
	Stats() map[string]interface{}
	Close()
}

// IdleDeadline describes one host-idle window handed to an idle callback.
type IdleDeadline interface {
	// TimeRemaining reports the budget left in the current idle window.
	TimeRemaining() time.Duration
	// DidTimeout reports whether the callback fired because the scheduler's
	// enforced timeout elapsed before a natural idle window appeared.
	DidTimeout() bool
}

// IIdleScheduler is the platform idle-callback facility. RequestIdleCallback
// registers fn for the next idle window and returns a cancel function that
// revokes the registration if it has not fired yet.
type IIdleScheduler interface {
	RequestIdleCallback(fn func(deadline IdleDeadline), timeout time.Duration) (cancel func())
}

// UserIdleState is an operating-system-level interactivity signal.
type UserIdleState string

const (
	UserActive UserIdleState = "active"
	UserIdle   UserIdleState = "idle"
	UserLocked UserIdleState = "locked"
)

// IUserIdleMonitor reports transitions of the user's idle state. Subscribe
// returns a function that removes the subscription.
type IUserIdleMonitor interface {
	Subscribe(fn func(state UserIdleState)) (unsubscribe func())
}
