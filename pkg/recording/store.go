package recording

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/interaction-recorder/pkg/core"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
)

// Store accumulates classified events for one capture session and writes
// them as a single JSON document on session end. Append-only; owned by the
// single capture loop, so no locking.
type Store struct {
	sessionID  string
	appPackage string
	deviceName string
	events     []InteractionEvent
	saved      bool
}

// NewStore creates a store for one capture session.
func NewStore(appPackage, deviceName string) *Store {
	return &Store{
		sessionID:  uuid.NewString(),
		appPackage: appPackage,
		deviceName: deviceName,
	}
}

// Append adds an event. Events keep strict detection order.
func (s *Store) Append(ev InteractionEvent) {
	s.events = append(s.events, ev)
}

// Len returns the number of recorded events.
func (s *Store) Len() int {
	return len(s.events)
}

// Events returns the recorded events in order.
func (s *Store) Events() []InteractionEvent {
	return s.events
}

// Save writes the recording to path. It runs at most once per session:
// repeat calls are no-ops, and an empty session writes nothing. Summary
// counts are derived here from the final sequence, not maintained
// incrementally.
func (s *Store) Save(path string) error {
	if s.saved {
		return nil
	}
	s.saved = true

	if len(s.events) == 0 {
		logger.Info("no interactions recorded, skipping save")
		return nil
	}

	rec := Recording{
		SessionID:         s.sessionID,
		AppPackage:        s.appPackage,
		DeviceName:        s.deviceName,
		RecordedAt:        Timestamp(time.Now()),
		TotalActivities:   DistinctActivities(s.events),
		TotalInteractions: len(s.events),
		Events:            s.events,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return core.ErrSaveFailed.WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return core.ErrSaveFailed.WithCause(err)
	}

	logger.Info("recording saved", "path", path, "events", len(s.events))
	return nil
}
