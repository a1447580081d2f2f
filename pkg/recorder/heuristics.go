package recorder

import (
	"strings"
	"time"
)

// ClickCooldown is the minimum gap between accepted click signals for the
// same identity. Polling at ~100ms can observe one physical tap across
// several consecutive polls; without the cooldown a single tap would be
// recorded as many events.
const ClickCooldown = 500 * time.Millisecond

// Heuristics recovers interactions the attribute diff alone misses: taps
// on plain clickable elements that change no attribute, and text inputs
// gaining focus. One instance per capture session.
type Heuristics struct {
	lastClick map[string]time.Time
	now       func() time.Time
}

// NewHeuristics creates a detector with an empty cooldown table.
func NewHeuristics() *Heuristics {
	return &Heuristics{
		lastClick: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Reset clears the cooldown table (activity changed).
func (h *Heuristics) Reset() {
	h.lastClick = make(map[string]time.Time)
}

// NewlyFocused reports whether the element just gained focus: focused is
// "true" now and was not "true" (or the element was untracked) last cycle.
func NewlyFocused(prev map[string]string, tracked bool, curr map[string]string) bool {
	if curr[attrFocused] != "true" {
		return false
	}
	return !tracked || prev[attrFocused] != "true"
}

// DebouncedClick reports whether the element should be treated as tapped
// this cycle. Requires a screen change, a button-like element, and an
// elapsed per-identity cooldown. The first observation of an identity
// always passes; every pass resets that identity's clock.
func (h *Heuristics) DebouncedClick(identity string, state map[string]string, screenChanged bool) bool {
	if !screenChanged || !buttonLike(state) {
		return false
	}

	now := h.now()
	last, seen := h.lastClick[identity]
	if !seen || now.Sub(last) > ClickCooldown {
		h.lastClick[identity] = now
		return true
	}
	return false
}

// buttonLike reports whether the element plausibly receives taps: a button
// class, or a generically clickable element with visible text.
func buttonLike(state map[string]string) bool {
	if strings.Contains(strings.ToLower(state[attrClass]), "button") {
		return true
	}
	return state[attrClickable] == "true" && state[attrText] != ""
}
