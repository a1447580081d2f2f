// Package recording defines the persisted interaction-recording artifact:
// the event model, the append-only capture store, and the loader.
package recording

import (
	"fmt"
	"strings"
	"time"
)

// ActionType is the closed set of recordable interaction kinds.
type ActionType string

// ActionType values.
const (
	ActionActivityChange ActionType = "activity_change"
	ActionTextInput      ActionType = "text_input"
	ActionButtonClick    ActionType = "button_click"
	ActionCheckbox       ActionType = "checkbox"
	ActionSelection      ActionType = "selection"
	ActionClick          ActionType = "click"
	ActionScroll         ActionType = "scroll"
	ActionUnknown        ActionType = "unknown"
)

// Recordable reports whether events of this type are persisted.
// Unknown classifications are silently dropped.
func (a ActionType) Recordable() bool {
	return a != ActionUnknown && a != ""
}

// Tappable reports whether replay dispatches this type as a tap.
func (a ActionType) Tappable() bool {
	switch a {
	case ActionClick, ActionButtonClick, ActionCheckbox, ActionSelection:
		return true
	}
	return false
}

// Timestamp marshals as RFC 3339 and additionally accepts the zone-less
// ISO form found in recordings produced by earlier tooling.
type Timestamp time.Time

const isoNoZone = "2006-01-02T15:04:05.999999999"

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Timestamp(time.Time{})
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, isoNoZone} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// Widget is the attribute snapshot of the element an event targeted.
type Widget struct {
	ID          string `json:"id,omitempty"`
	Text        string `json:"text,omitempty"`
	Class       string `json:"class,omitempty"`
	ContentDesc string `json:"content_desc,omitempty"`
	Package     string `json:"package,omitempty"`
	Activity    string `json:"activity,omitempty"`
	Bounds      string `json:"bounds,omitempty"`
	Clickable   string `json:"clickable,omitempty"`
	Enabled     string `json:"enabled,omitempty"`
	Focusable   string `json:"focusable,omitempty"`
}

// InteractionEvent is one classified user action. Immutable once appended.
type InteractionEvent struct {
	Type             ActionType        `json:"type"`
	Timestamp        Timestamp         `json:"timestamp"`
	Activity         string            `json:"activity,omitempty"`
	PreviousActivity string            `json:"previous_activity,omitempty"`
	Widget           *Widget           `json:"widget,omitempty"`
	StateChange      map[string]string `json:"state_change,omitempty"`
}

// Recording is the persisted artifact of one capture session.
// Summary counts are computed at write time from the final event sequence.
type Recording struct {
	SessionID         string             `json:"session_id,omitempty"`
	AppPackage        string             `json:"app_package"`
	DeviceName        string             `json:"device_name"`
	RecordedAt        Timestamp          `json:"recorded_at"`
	TotalActivities   int                `json:"total_activities"`
	TotalInteractions int                `json:"total_interactions"`
	Events            []InteractionEvent `json:"events"`
}

// LaunchActivity returns the activity of the first event carrying one,
// usable as the app launch activity when replaying.
func (r *Recording) LaunchActivity() string {
	for _, ev := range r.Events {
		if ev.Activity != "" {
			return ev.Activity
		}
	}
	return ""
}

// DistinctActivities counts the distinct non-empty activities across events.
func DistinctActivities(events []InteractionEvent) int {
	seen := make(map[string]struct{})
	for _, ev := range events {
		if ev.Activity != "" {
			seen[ev.Activity] = struct{}{}
		}
	}
	return len(seen)
}
