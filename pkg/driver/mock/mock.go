// Package mock provides a scriptable in-memory core.Device for testing
// without a real device: a sequence of screens, each a set of elements
// with attribute bags, plus a journal of dispatched actions.
package mock

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/interaction-recorder/pkg/core"
)

// Element is one scripted UI element. Attrs holds UiAutomator2 attribute
// names ("resource-id", "class", "text", "content-desc", "bounds",
// "clickable", "enabled", "focused", ...); attributes omitted from the map
// read as absent. Displayed defaults to hidden unless set.
type Element struct {
	Handle    string
	Attrs     map[string]string
	Displayed bool
}

// Screen is the device state presented during one capture cycle.
type Screen struct {
	Activity string
	Source   string // page source, drives the screen fingerprint
	Elements []Element
}

// Device is a scriptable core.Device. The capture loop reads the current
// activity exactly once per cycle, so the script advances one screen per
// CurrentActivity call; when the script is exhausted every call returns a
// connection error, which drives the session's fatal-exit path. Replay
// tests typically script a single screen, which never advances.
type Device struct {
	Screens []Screen

	// Actions journals every dispatched primitive in order, e.g.
	// "tap:btn", "clear:field", "keys:field:hello", "swipe:100,200-100,100".
	Actions []string

	// FailFind, when set, is returned by every FindElement call.
	FailFind error

	idx     int
	started bool
	closed  bool
}

// New creates a mock device presenting the given screens in order.
func New(screens ...Screen) *Device {
	return &Device{Screens: screens}
}

var errScriptDone = core.ErrSessionLost.WithMessage("mock script exhausted")

func (d *Device) current() (*Screen, error) {
	if d.closed || d.idx >= len(d.Screens) {
		return nil, errScriptDone
	}
	return &d.Screens[d.idx], nil
}

// CurrentActivity returns the scripted activity and advances the script.
func (d *Device) CurrentActivity() (string, error) {
	if d.started {
		d.idx++
	}
	d.started = true

	screen, err := d.current()
	if err != nil {
		return "", err
	}
	return screen.Activity, nil
}

// PageSource returns the scripted source.
func (d *Device) PageSource() (string, error) {
	screen, err := d.current()
	if err != nil {
		return "", err
	}
	return screen.Source, nil
}

// FindElements returns handles of elements matching the selector. The
// UiAutomator strategy matches every element (deduplication and the
// displayed filter are the recorder's job).
func (d *Device) FindElements(strategy, selector string) ([]string, error) {
	screen, err := d.current()
	if err != nil {
		return nil, err
	}

	var handles []string
	for _, el := range screen.Elements {
		if strategy == core.StrategyUIAutomator || matches(el, strategy, selector) {
			handles = append(handles, el.Handle)
		}
	}
	return handles, nil
}

// FindElement returns the first matching element or element_not_found.
func (d *Device) FindElement(strategy, selector string) (string, error) {
	if d.FailFind != nil {
		return "", d.FailFind
	}
	handles, err := d.FindElements(strategy, selector)
	if err != nil {
		return "", err
	}
	if len(handles) == 0 {
		return "", core.ErrElementNotFound
	}
	return handles[0], nil
}

func matches(el Element, strategy, selector string) bool {
	switch strategy {
	case core.StrategyID:
		return el.Attrs["resource-id"] == selector
	case core.StrategyAccessibility:
		return el.Attrs["content-desc"] == selector
	case core.StrategyXPath:
		// Only the exact-text form used by the replayer: //*[@text='...']
		if text, ok := strings.CutPrefix(selector, "//*[@text='"); ok {
			return el.Attrs["text"] == strings.TrimSuffix(text, "']")
		}
	}
	return false
}

func (d *Device) element(handle string) (*Element, error) {
	screen, err := d.current()
	if err != nil {
		return nil, err
	}
	for i := range screen.Elements {
		if screen.Elements[i].Handle == handle {
			return &screen.Elements[i], nil
		}
	}
	return nil, core.ErrStaleElement
}

// ElementAttribute reads a scripted attribute; missing keys are absent.
func (d *Device) ElementAttribute(handle, name string) (string, bool, error) {
	el, err := d.element(handle)
	if err != nil {
		return "", false, err
	}
	value, present := el.Attrs[name]
	return value, present, nil
}

// ElementDisplayed reports the scripted visibility.
func (d *Device) ElementDisplayed(handle string) (bool, error) {
	el, err := d.element(handle)
	if err != nil {
		return false, err
	}
	return el.Displayed, nil
}

// ElementEnabled reports the scripted enabled attribute.
func (d *Device) ElementEnabled(handle string) (bool, error) {
	el, err := d.element(handle)
	if err != nil {
		return false, err
	}
	return el.Attrs["enabled"] == "true", nil
}

// TapElement journals a tap.
func (d *Device) TapElement(handle string) error {
	d.Actions = append(d.Actions, "tap:"+handle)
	return nil
}

// ClearElement journals a clear.
func (d *Device) ClearElement(handle string) error {
	d.Actions = append(d.Actions, "clear:"+handle)
	return nil
}

// SendKeys journals typed text.
func (d *Device) SendKeys(handle, text string) error {
	d.Actions = append(d.Actions, fmt.Sprintf("keys:%s:%s", handle, text))
	return nil
}

// Swipe journals a gesture.
func (d *Device) Swipe(startX, startY, endX, endY, durationMs int) error {
	d.Actions = append(d.Actions, fmt.Sprintf("swipe:%d,%d-%d,%d", startX, startY, endX, endY))
	return nil
}

// Close marks the session closed; further calls fail.
func (d *Device) Close() error {
	d.closed = true
	return nil
}
