package recorder

import (
	"github.com/devicelab-dev/interaction-recorder/pkg/core"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
)

// Element attribute names as exposed by UiAutomator2.
const (
	attrResourceID  = "resource-id"
	attrClass       = "class"
	attrBounds      = "bounds"
	attrText        = "text"
	attrContentDesc = "content-desc"
	attrSelected    = "selected"
	attrChecked     = "checked"
	attrFocused     = "focused"
	attrEnabled     = "enabled"
	attrClickable   = "clickable"
	attrScrollable  = "scrollable"
	attrFocusable   = "focusable"
	attrPackage     = "package"
	attrDisplayed   = "displayed"
)

// stateAttrs are the attributes captured into each element's state bag,
// beyond the identity attributes read up front.
var stateAttrs = []string{
	attrSelected,
	attrChecked,
	attrFocused,
	attrEnabled,
	attrClickable,
	attrScrollable,
	attrFocusable,
	attrPackage,
}

// significantAttrs is the fixed subset whose change between polls counts
// as a state change.
var significantAttrs = []string{
	attrSelected,
	attrChecked,
	attrFocused,
	attrText,
	attrEnabled,
}

// candidateQueries is the union of UiSelector queries whose results form
// the candidate element set for each poll.
var candidateQueries = []string{
	`new UiSelector().clickable(true).enabled(true)`,
	`new UiSelector().className("android.widget.Button").enabled(true)`,
	`new UiSelector().textMatches(".*").enabled(true)`,
	`new UiSelector().className("android.widget.EditText")`,
	`new UiSelector().descriptionMatches(".*").enabled(true)`,
	`new UiSelector().className("android.widget.ImageButton").enabled(true)`,
}

// fingerprintLen bounds the page-source prefix used as the screen
// fingerprint. Coarse change indicator only, never a precise diff.
const fingerprintLen = 1000

// Observation is one element's captured state within a single poll cycle.
// Never mutated after capture.
type Observation struct {
	ElementID  string            // driver handle, valid this cycle only
	Identity   string            // stable key
	ResourceID string            // raw resource id (may be empty)
	State      map[string]string // present attributes only
}

// Snapshot is the result of one full poll: all tracked observations keyed
// by identity, their encounter order, and the screen fingerprint.
type Snapshot struct {
	Observations map[string]Observation
	Order        []string // identities in encounter order
	Fingerprint  string
}

// Snapshotter retrieves the candidate element set and captures state.
type Snapshotter struct {
	device core.Device
}

// NewSnapshotter creates a Snapshotter for a device.
func NewSnapshotter(device core.Device) *Snapshotter {
	return &Snapshotter{device: device}
}

// Poll executes one retrieve-and-capture pass: the query union is
// deduplicated by handle and identity, elements that are not displayed or
// yield no identity are skipped, and each kept element's state is captured.
// Per-element failures are logged and skipped; a query failure aborts the
// poll with an error for the loop driver to categorize.
func (s *Snapshotter) Poll() (*Snapshot, error) {
	snap := &Snapshot{Observations: make(map[string]Observation)}

	source, err := s.device.PageSource()
	if err != nil {
		if core.IsFatal(err) {
			return nil, err
		}
		logger.Debug("page source unavailable this cycle", "error", err)
	} else if len(source) > fingerprintLen {
		snap.Fingerprint = source[:fingerprintLen]
	} else {
		snap.Fingerprint = source
	}

	seen := make(map[string]bool) // element handles already captured
	for _, query := range candidateQueries {
		handles, err := s.device.FindElements(core.StrategyUIAutomator, query)
		if err != nil {
			return nil, err
		}
		for _, handle := range handles {
			if seen[handle] {
				continue
			}
			seen[handle] = true

			obs, ok := s.capture(handle)
			if !ok {
				continue
			}
			if _, dup := snap.Observations[obs.Identity]; dup {
				continue
			}
			snap.Observations[obs.Identity] = obs
			snap.Order = append(snap.Order, obs.Identity)
		}
	}

	logger.Debug("poll complete", "candidates", len(seen), "tracked", len(snap.Order))
	return snap, nil
}

// capture reads one element's identity and state bag. Any read failure
// excludes the element from this cycle without propagating.
func (s *Snapshotter) capture(handle string) (Observation, bool) {
	read := func(name string) (string, bool) {
		value, present, err := s.device.ElementAttribute(handle, name)
		if err != nil {
			return "", false
		}
		return value, present
	}

	resourceID, _ := read(attrResourceID)
	className, classPresent := read(attrClass)
	bounds, boundsPresent := read(attrBounds)
	text, textPresent := read(attrText)
	contentDesc, descPresent := read(attrContentDesc)

	identity := Identity(resourceID, className, bounds, text, contentDesc)
	if identity == "" {
		return Observation{}, false
	}

	displayed, err := s.device.ElementDisplayed(handle)
	if err != nil || !displayed {
		return Observation{}, false
	}

	// A present-but-empty attribute stays in the bag: emptiness is a value
	// (text cleared), absence is not.
	state := map[string]string{attrDisplayed: "true"}
	if classPresent {
		state[attrClass] = className
	}
	if boundsPresent {
		state[attrBounds] = bounds
	}
	if textPresent {
		state[attrText] = text
	}
	if descPresent {
		state[attrContentDesc] = contentDesc
	}
	for _, name := range stateAttrs {
		if value, present := read(name); present {
			state[name] = value
		}
	}

	return Observation{
		ElementID:  handle,
		Identity:   identity,
		ResourceID: resourceID,
		State:      state,
	}, true
}

// StateChanged reports whether any significant attribute differs between
// two state bags. Attributes absent in either bag are ignored: absence is
// not a change.
func StateChanged(prev, curr map[string]string) bool {
	for _, name := range significantAttrs {
		pv, pok := prev[name]
		cv, cok := curr[name]
		if pok && cok && pv != cv {
			return true
		}
	}
	return false
}

// ScreenChanged compares two fingerprints. Unknown fingerprints (either
// side empty) never count as a change.
func ScreenChanged(prev, curr string) bool {
	return prev != "" && curr != "" && prev != curr
}
