package recorder

import (
	"context"
	"strings"
	"time"

	"github.com/devicelab-dev/interaction-recorder/pkg/core"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
	"github.com/devicelab-dev/interaction-recorder/pkg/recording"
)

// SessionConfig configures one capture session.
type SessionConfig struct {
	AppPackage   string
	DeviceName   string
	OutputPath   string
	PollInterval time.Duration // between cycles; default 100ms
	ErrorBackoff time.Duration // after a recoverable cycle error; default 1s
}

// DefaultPollInterval is the gap between poll cycles.
const DefaultPollInterval = 100 * time.Millisecond

// DefaultErrorBackoff is the pause after a recoverable cycle error.
const DefaultErrorBackoff = time.Second

// Session is one capture session: the single-threaded poll-diff-classify-
// record loop and all its per-session state. All mutable maps (previous
// snapshot, cooldown table) are owned exclusively by this instance.
type Session struct {
	device core.Device
	store  *recording.Store
	snap   *Snapshotter
	heur   *Heuristics
	cfg    SessionConfig

	activity      string
	activityKnown bool
	prev          *Snapshot
	now           func() time.Time
}

// NewSession creates a capture session.
func NewSession(device core.Device, cfg SessionConfig) *Session {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = DefaultErrorBackoff
	}
	return &Session{
		device: device,
		store:  recording.NewStore(cfg.AppPackage, cfg.DeviceName),
		snap:   NewSnapshotter(device),
		heur:   NewHeuristics(),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Store exposes the session's recording store.
func (s *Session) Store() *recording.Store {
	return s.store
}

// cycleOutcome tags the result of one poll cycle for the loop driver.
type cycleOutcome int

const (
	cycleOK cycleOutcome = iota
	cycleRecoverable
	cycleFatal
)

type cycleResult struct {
	outcome cycleOutcome
	err     error
}

// Run drives the capture loop until the context is canceled or a fatal
// automation error occurs. The recording is saved on every exit path;
// a save failure is reported only when the loop itself ended cleanly.
func (s *Session) Run(ctx context.Context) error {
	logger.Info("recording started",
		"app", s.cfg.AppPackage, "device", s.cfg.DeviceName, "interval", s.cfg.PollInterval)

	var loopErr error
	defer func() {
		if err := s.store.Save(s.cfg.OutputPath); err != nil {
			logger.Error("failed to save recording", "error", err)
			if loopErr == nil {
				loopErr = err
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			logger.Info("stop requested, finishing recording")
			return loopErr
		}

		res := s.cycle()
		switch res.outcome {
		case cycleFatal:
			logger.Error("automation session unusable, stopping capture", "error", res.err)
			loopErr = res.err
			return loopErr
		case cycleRecoverable:
			logger.Warn("cycle failed, continuing", "error", res.err)
			if !sleepCtx(ctx, s.cfg.ErrorBackoff) {
				return loopErr
			}
		default:
			if !sleepCtx(ctx, s.cfg.PollInterval) {
				return loopErr
			}
		}
	}
}

// cycle runs one poll-diff-classify-record iteration.
func (s *Session) cycle() cycleResult {
	if err := s.checkActivity(); err != nil {
		return cycleResult{outcome: cycleFatal, err: err}
	}

	curr, err := s.snap.Poll()
	if err != nil {
		if core.IsFatal(err) {
			return cycleResult{outcome: cycleFatal, err: err}
		}
		return cycleResult{outcome: cycleRecoverable, err: err}
	}

	var prevFingerprint string
	if s.prev != nil {
		prevFingerprint = s.prev.Fingerprint
	}
	screenChanged := ScreenChanged(prevFingerprint, curr.Fingerprint)

	for _, identity := range curr.Order {
		obs := curr.Observations[identity]

		var prevState map[string]string
		var tracked bool
		if s.prev != nil {
			var prevObs Observation
			prevObs, tracked = s.prev.Observations[identity]
			prevState = prevObs.State
		}

		sig := Signal{
			Identity:       identity,
			State:          obs.State,
			NewlyFocused:   NewlyFocused(prevState, tracked, obs.State),
			DebouncedClick: s.heur.DebouncedClick(identity, obs.State, screenChanged),
		}
		if tracked {
			sig.StateChanged = StateChanged(prevState, obs.State)
		}
		if !sig.Detected() {
			continue
		}

		action := Classify(sig)
		if !action.Recordable() {
			continue
		}
		s.record(obs, action)
	}

	// The new baseline replaces the previous cycle's values atomically at
	// cycle end; nothing reads them mid-update.
	s.prev = curr
	return cycleResult{outcome: cycleOK}
}

// checkActivity tracks the foreground activity. An activity change records
// an event and resets all prior-state caches. Only connection failures
// propagate; transient read failures are logged and ignored.
func (s *Session) checkActivity() error {
	activity, err := s.device.CurrentActivity()
	if err != nil {
		if core.IsFatal(err) {
			return err
		}
		logger.Debug("could not read current activity", "error", err)
		return nil
	}

	if s.activityKnown && activity == s.activity {
		return nil
	}

	previous := s.activity
	s.activity = activity
	s.activityKnown = true
	s.prev = nil
	s.heur.Reset()

	logger.Info("activity changed", "activity", activity)
	s.store.Append(recording.InteractionEvent{
		Type:             recording.ActionActivityChange,
		Timestamp:        recording.Timestamp(s.now()),
		Activity:         activity,
		PreviousActivity: previous,
	})
	return nil
}

// record appends one classified event and emits a one-line summary.
func (s *Session) record(obs Observation, action recording.ActionType) {
	widget := &recording.Widget{
		ID:          obs.ResourceID,
		Text:        obs.State[attrText],
		Class:       obs.State[attrClass],
		ContentDesc: obs.State[attrContentDesc],
		Package:     obs.State[attrPackage],
		Activity:    s.activity,
		Bounds:      obs.State[attrBounds],
		Clickable:   obs.State[attrClickable],
		Enabled:     obs.State[attrEnabled],
		Focusable:   obs.State[attrFocusable],
	}

	s.store.Append(recording.InteractionEvent{
		Type:        action,
		Timestamp:   recording.Timestamp(s.now()),
		Activity:    s.activity,
		Widget:      widget,
		StateChange: obs.State,
	})

	id := widget.ID
	if id == "" {
		id = "no-id"
	}
	logger.Info(strings.ToUpper(string(action)),
		"activity", s.activity, "id", id, "text", widget.Text)
}

// sleepCtx sleeps for d unless the context is canceled first. Returns
// false on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
