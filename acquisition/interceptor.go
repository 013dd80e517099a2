package acquisition

import (
	"strings"
	"sync"

	"snapmirror/acquisition/contracts"
)

// clickInterceptor is a scoped hold on the document's capture-phase click
// stream. The listener is a global shared resource: Release must run on every
// session exit so unrelated future clicks are never intercepted.
type clickInterceptor struct {
	refs   chan string
	remove func()
	once   sync.Once
}

// installInterceptor registers a capture-phase listener that watches for the
// click the host delivers to its freshly created download anchor. The default
// navigation is suppressed and the anchor's binary-object reference is handed
// to the session instead.
func installInterceptor(doc contracts.IDocument) *clickInterceptor {
	i := &clickInterceptor{refs: make(chan string, 1)}
	i.remove = doc.AddClickCapture(func(ev contracts.IClickEvent) {
		target := ev.Target()
		if !isDownloadAnchor(target) {
			return
		}
		ev.PreventDefault()
		select {
		case i.refs <- target.Attr("href"):
		default:
			// A reference is already pending; late clicks are irrelevant.
		}
	})
	return i
}

// Release removes the capture listener. Safe to call more than once.
func (i *clickInterceptor) Release() {
	i.once.Do(i.remove)
}

// isDownloadAnchor reports whether the element is a download-style anchor
// pointing at a binary-object reference.
func isDownloadAnchor(el contracts.IElement) bool {
	if !strings.EqualFold(el.TagName(), "a") {
		return false
	}
	if el.Attr("download") != "" {
		return true
	}
	return strings.HasPrefix(el.Attr("href"), "blob:")
}
