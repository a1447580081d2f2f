// Package recorder implements the capture side: polling the UI tree,
// diffing element state between polls, detecting taps and focus changes,
// classifying them into actions, and appending them to a recording.
package recorder

import "strings"

// Identity derives a best-effort stable key for an element across polls.
// The resource id wins when present; otherwise a composite of class,
// bounds, text and content description is used. An element whose five
// identity sources are all empty has no identity and is excluded from
// tracking: it cannot be diffed reliably and must not pollute state maps.
func Identity(resourceID, className, bounds, text, contentDesc string) string {
	if resourceID != "" {
		return resourceID
	}
	if className == "" && bounds == "" && text == "" && contentDesc == "" {
		return ""
	}
	return strings.Join([]string{className, bounds, text, contentDesc}, "_")
}
