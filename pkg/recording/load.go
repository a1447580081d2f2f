package recording

import (
	"encoding/json"
	"os"

	"github.com/devicelab-dev/interaction-recorder/pkg/core"
)

// Legacy recordings produced by earlier tooling differ from the canonical
// schema: widgets carry location/size objects instead of a bounds string,
// event types use "input"/"swipe", and there is no state_change. Load
// normalizes both variants into the canonical form so nothing downstream
// branches on schema.

type legacyPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type legacySize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type widgetJSON struct {
	Widget
	Location *legacyPoint `json:"location,omitempty"`
	Size     *legacySize  `json:"size,omitempty"`
}

type eventJSON struct {
	Type             string            `json:"type"`
	Timestamp        Timestamp         `json:"timestamp"`
	Activity         string            `json:"activity,omitempty"`
	PreviousActivity string            `json:"previous_activity,omitempty"`
	Widget           *widgetJSON       `json:"widget,omitempty"`
	StateChange      map[string]string `json:"state_change,omitempty"`
}

type recordingJSON struct {
	SessionID         string      `json:"session_id"`
	AppPackage        string      `json:"app_package"`
	DeviceName        string      `json:"device_name"`
	RecordedAt        Timestamp   `json:"recorded_at"`
	TotalActivities   int         `json:"total_activities"`
	TotalInteractions int         `json:"total_interactions"`
	Events            []eventJSON `json:"events"`
}

// legacyTypes maps event types written by earlier tooling onto the enum.
var legacyTypes = map[string]ActionType{
	"input": ActionTextInput,
	"swipe": ActionScroll,
}

// Load reads a recording artifact, accepting both the canonical schema and
// the legacy variant.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided recording file
	if err != nil {
		return nil, err
	}

	var raw recordingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.ErrInvalidRecording.WithCause(err)
	}

	rec := &Recording{
		SessionID:         raw.SessionID,
		AppPackage:        raw.AppPackage,
		DeviceName:        raw.DeviceName,
		RecordedAt:        raw.RecordedAt,
		TotalActivities:   raw.TotalActivities,
		TotalInteractions: raw.TotalInteractions,
		Events:            make([]InteractionEvent, 0, len(raw.Events)),
	}

	for _, ev := range raw.Events {
		rec.Events = append(rec.Events, normalizeEvent(ev))
	}
	return rec, nil
}

func normalizeEvent(ev eventJSON) InteractionEvent {
	out := InteractionEvent{
		Type:             normalizeType(ev.Type),
		Timestamp:        ev.Timestamp,
		Activity:         ev.Activity,
		PreviousActivity: ev.PreviousActivity,
		StateChange:      ev.StateChange,
	}
	if ev.Widget != nil {
		w := ev.Widget.Widget
		if w.Bounds == "" && ev.Widget.Location != nil && ev.Widget.Size != nil {
			w.Bounds = core.Bounds{
				X:      ev.Widget.Location.X,
				Y:      ev.Widget.Location.Y,
				Width:  ev.Widget.Size.Width,
				Height: ev.Widget.Size.Height,
			}.String()
		}
		out.Widget = &w
	}
	return out
}

func normalizeType(t string) ActionType {
	if mapped, ok := legacyTypes[t]; ok {
		return mapped
	}
	return ActionType(t)
}
