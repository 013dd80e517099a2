package acquisition

import (
	"strings"

	"snapmirror/acquisition/contracts"
)

// LocatorStrategy is one algorithm for finding a control within the evolving
// host document. Locate returns nil when the strategy does not apply to the
// document's current shape.
type LocatorStrategy struct {
	Name   string
	Locate func(doc contracts.IDocument) contracts.IElement
}

// DefaultTriggerStrategies returns the ordered strategies used to find the
// export-initiating control. The host page's structure changes over time, so
// the engine tries each in order and takes the first match: the current
// dedicated export control first, then the legacy path through the project
// name menu.
func DefaultTriggerStrategies() []LocatorStrategy {
	return []LocatorStrategy{
		{Name: "export-control", Locate: locateExportControl},
		{Name: "project-menu", Locate: locateProjectMenuControl},
	}
}

// locateExportControl finds a dedicated export button by stable text or icon
// markers.
func locateExportControl(doc contracts.IDocument) contracts.IElement {
	for _, el := range doc.QueryAll("button") {
		if containsFold(el.Text(), "export") ||
			containsFold(el.Attr("aria-label"), "export") ||
			el.Attr("data-icon") == "download" {
			return el
		}
	}
	return nil
}

// locateProjectMenuControl finds the secondary menu reachable through the
// project-name or status control.
func locateProjectMenuControl(doc contracts.IDocument) contracts.IElement {
	for _, el := range doc.QueryAll("button") {
		testID := el.Attr("data-testid")
		if testID == "project-name" || testID == "status-menu" {
			return el
		}
		if containsFold(el.Attr("aria-label"), "project") && el.Attr("aria-haspopup") == "true" {
			return el
		}
	}
	return nil
}

// menuItemTags are the tags download actions have been observed under.
var menuItemTags = []string{"a", "button", "div"}

// locateDownloadAction scans the currently rendered menu content for a
// download-initiating item, identified by text or iconography.
func locateDownloadAction(doc contracts.IDocument) contracts.IElement {
	for _, tag := range menuItemTags {
		for _, el := range doc.QueryAll(tag) {
			if tag == "div" && el.Attr("role") != "menuitem" {
				continue
			}
			if containsFold(el.Text(), "download") ||
				containsFold(el.Attr("aria-label"), "download") ||
				el.Attr("data-icon") == "download" {
				return el
			}
		}
	}
	return nil
}

// locateSubmenuParent finds a menu item that hosts a nested export submenu.
// Hovering it makes the nested items render.
func locateSubmenuParent(doc contracts.IDocument) contracts.IElement {
	for _, tag := range menuItemTags {
		for _, el := range doc.QueryAll(tag) {
			if el.Attr("aria-haspopup") != "true" {
				continue
			}
			if containsFold(el.Text(), "export") || containsFold(el.Text(), "download") {
				return el
			}
		}
	}
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
