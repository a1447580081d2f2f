// Package replayer executes a recorded interaction sequence against a live
// session, re-locating each widget through a fallback chain and dispatching
// the corresponding primitive action.
package replayer

import (
	"context"
	"fmt"
	"time"

	"github.com/devicelab-dev/interaction-recorder/pkg/core"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
	"github.com/devicelab-dev/interaction-recorder/pkg/recording"
)

// Config configures a replay run.
type Config struct {
	EventDelay      time.Duration // settle time after every attempted event; default 500ms
	ResolveTimeout  time.Duration // bounded wait per resolution strategy; default 5s
	ResolveInterval time.Duration // retry interval within the wait; default 500ms
	InputText       string        // fallback text for text_input events
}

// DefaultInputText replays text_input events whose recorded state carries
// no text value.
const DefaultInputText = "test input"

// Summary is the outcome of a replay run. Skips are not failures: a skipped
// event was resolved or executed unsuccessfully and replay moved on.
type Summary struct {
	Total    int
	Executed int
	Skipped  int
}

// Engine replays recordings against a device. Strictly sequential: one
// event's action completes or is abandoned before the next is resolved.
type Engine struct {
	device core.Device
	cfg    Config
	sleep  func(context.Context, time.Duration)
}

// New creates a replay engine.
func New(device core.Device, cfg Config) *Engine {
	if cfg.EventDelay <= 0 {
		cfg.EventDelay = 500 * time.Millisecond
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = 5 * time.Second
	}
	if cfg.ResolveInterval <= 0 {
		cfg.ResolveInterval = 500 * time.Millisecond
	}
	if cfg.InputText == "" {
		cfg.InputText = DefaultInputText
	}
	return &Engine{
		device: device,
		cfg:    cfg,
		sleep:  sleepCtx,
	}
}

// Replay executes the recording's events in original order. Per-event
// failures are logged and skipped; only context cancellation stops the run
// early. The fixed inter-event delay applies after every attempted event,
// executed or skipped.
func (e *Engine) Replay(ctx context.Context, rec *recording.Recording) (*Summary, error) {
	summary := &Summary{Total: len(rec.Events)}
	logger.Info("replay started", "events", len(rec.Events), "app", rec.AppPackage)

	for i, ev := range rec.Events {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		logger.Info("replaying event",
			"index", fmt.Sprintf("%d/%d", i+1, len(rec.Events)), "type", ev.Type)

		if err := e.replayEvent(ctx, ev); err != nil {
			logger.Warn("event skipped", "type", ev.Type, "error", err)
			summary.Skipped++
		} else {
			summary.Executed++
		}

		e.sleep(ctx, e.cfg.EventDelay)
	}

	logger.Info("replay finished",
		"executed", summary.Executed, "skipped", summary.Skipped)
	return summary, nil
}

func (e *Engine) replayEvent(ctx context.Context, ev recording.InteractionEvent) error {
	if ev.Type == recording.ActionActivityChange {
		// Navigation is driven by the replayed taps themselves.
		return core.ErrElementNotInteractable.WithMessage("activity marker, no action to dispatch")
	}
	if ev.Widget == nil {
		return core.ErrInvalidRecording.WithMessage("event has no widget snapshot")
	}

	elementID, err := e.resolve(ctx, ev.Widget)
	if err != nil {
		return err
	}

	displayed, err := e.device.ElementDisplayed(elementID)
	if err != nil || !displayed {
		return core.ErrElementNotInteractable.WithCause(err)
	}
	enabled, err := e.device.ElementEnabled(elementID)
	if err != nil || !enabled {
		return core.ErrElementNotInteractable.WithCause(err)
	}

	return e.dispatch(ev, elementID)
}

func (e *Engine) dispatch(ev recording.InteractionEvent, elementID string) error {
	switch {
	case ev.Type.Tappable():
		return e.device.TapElement(elementID)

	case ev.Type == recording.ActionTextInput:
		if err := e.device.ClearElement(elementID); err != nil {
			return err
		}
		return e.device.SendKeys(elementID, e.inputText(ev))

	case ev.Type == recording.ActionScroll:
		return e.scroll(ev.Widget)

	default:
		return core.ErrElementNotInteractable.WithMessage(
			fmt.Sprintf("no action mapped for type %q", ev.Type))
	}
}

// inputText returns the recorded post-change text when available, else the
// configured placeholder. The canonical schema does not store keystrokes,
// only the resulting element state.
func (e *Engine) inputText(ev recording.InteractionEvent) string {
	if text := ev.StateChange["text"]; text != "" {
		return text
	}
	return e.cfg.InputText
}

// scroll synthesizes a directional gesture from the recorded geometry:
// from the element center upward by half its height.
func (e *Engine) scroll(widget *recording.Widget) error {
	bounds, err := core.ParseBounds(widget.Bounds)
	if err != nil {
		return core.ErrElementNotInteractable.WithCause(err)
	}

	cx, cy := bounds.Center()
	distance := bounds.Height / 2
	if distance < 50 {
		distance = 50
	}
	return e.device.Swipe(cx, cy, cx, cy-distance, 300)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
