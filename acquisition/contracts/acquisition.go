package contracts

import "context"

// IAcquisitionEngine obtains one downloadable archive of the current project
// from the host page. Safe under concurrent calls: overlapping callers share
// a single in-flight acquisition.
type IAcquisitionEngine interface {
	AcquireSnapshotArchive(ctx context.Context) ([]byte, error)
}

// EventType names a synthetic user-interaction event dispatched to the host
// document. The full pointer/mouse sequence is required because the host's
// widgets listen at different stages.
type EventType string

const (
	EventPointerDown EventType = "pointerdown"
	EventMouseDown   EventType = "mousedown"
	EventPointerUp   EventType = "pointerup"
	EventMouseUp     EventType = "mouseup"
	EventClick       EventType = "click"
	EventMouseEnter  EventType = "mouseenter"
	EventKeyEnter    EventType = "keydown:Enter"
	EventKeyEscape   EventType = "keydown:Escape"
)

// IElement is one interactive element of the host document.
type IElement interface {
	TagName() string
	Text() string
	Attr(name string) string
	Dispatch(event EventType)
}

// IClickEvent is a click observed by a capture-phase listener before the
// host's default handling runs.
type IClickEvent interface {
	Target() IElement
	PreventDefault()
}

// IDocument is the host page's interactive document.
type IDocument interface {
	// QueryAll returns all elements with the given tag name, in document order.
	QueryAll(tag string) []IElement
	// Body returns the document body, used for outside clicks and global keys.
	Body() IElement
	// AddClickCapture installs a capture-phase click listener. The returned
	// function removes it; callers must invoke it on every exit path.
	AddClickCapture(handler func(ev IClickEvent)) (remove func())
}

// IBinaryFetcher retrieves the bytes behind a binary-object reference.
type IBinaryFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
