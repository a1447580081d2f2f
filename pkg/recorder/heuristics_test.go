package recorder

import (
	"testing"
	"time"
)

func buttonState() map[string]string {
	return map[string]string{
		attrClass:     "android.widget.Button",
		attrClickable: "true",
		attrText:      "Submit",
	}
}

func TestHeuristics_DebouncedClick_Cooldown(t *testing.T) {
	base := time.Now()
	current := base
	h := NewHeuristics()
	h.now = func() time.Time { return current }

	// First observation always passes.
	if !h.DebouncedClick("btn", buttonState(), true) {
		t.Fatal("first observation should pass")
	}

	// 200ms later: within cooldown, rejected.
	current = base.Add(200 * time.Millisecond)
	if h.DebouncedClick("btn", buttonState(), true) {
		t.Fatal("repeat within cooldown should be rejected")
	}

	// 600ms after the accepted click: cooldown elapsed, accepted.
	current = base.Add(600 * time.Millisecond)
	if !h.DebouncedClick("btn", buttonState(), true) {
		t.Fatal("signal after cooldown should pass")
	}

	// Acceptance reset the clock: 200ms after the second accept is rejected,
	// 600ms after it passes again.
	current = base.Add(800 * time.Millisecond)
	if h.DebouncedClick("btn", buttonState(), true) {
		t.Fatal("acceptance should reset the cooldown clock")
	}
	current = base.Add(1200 * time.Millisecond)
	if !h.DebouncedClick("btn", buttonState(), true) {
		t.Fatal("signal after reset cooldown should pass")
	}
}

func TestHeuristics_DebouncedClick_Gates(t *testing.T) {
	tests := []struct {
		name          string
		state         map[string]string
		screenChanged bool
		want          bool
	}{
		{"screen unchanged", buttonState(), false, false},
		{"button class", map[string]string{attrClass: "android.widget.ImageButton"}, true, true},
		{"clickable with text", map[string]string{attrClickable: "true", attrText: "OK"}, true, true},
		{"clickable without text", map[string]string{attrClickable: "true"}, true, false},
		{"inert element", map[string]string{attrClass: "android.widget.TextView"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeuristics()
			if got := h.DebouncedClick("el", tt.state, tt.screenChanged); got != tt.want {
				t.Errorf("DebouncedClick() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeuristics_Reset(t *testing.T) {
	base := time.Now()
	current := base
	h := NewHeuristics()
	h.now = func() time.Time { return current }

	h.DebouncedClick("btn", buttonState(), true)
	current = base.Add(100 * time.Millisecond)
	if h.DebouncedClick("btn", buttonState(), true) {
		t.Fatal("within cooldown should be rejected before reset")
	}

	// Activity change clears the table: the identity counts as unseen again.
	h.Reset()
	if !h.DebouncedClick("btn", buttonState(), true) {
		t.Fatal("identity should pass immediately after reset")
	}
}

func TestNewlyFocused(t *testing.T) {
	tests := []struct {
		name    string
		prev    map[string]string
		tracked bool
		curr    map[string]string
		want    bool
	}{
		{
			name:    "gained focus",
			prev:    map[string]string{attrFocused: "false"},
			tracked: true,
			curr:    map[string]string{attrFocused: "true"},
			want:    true,
		},
		{
			name: "untracked and focused",
			curr: map[string]string{attrFocused: "true"},
			want: true,
		},
		{
			name:    "still focused",
			prev:    map[string]string{attrFocused: "true"},
			tracked: true,
			curr:    map[string]string{attrFocused: "true"},
			want:    false,
		},
		{
			name:    "not focused",
			prev:    map[string]string{attrFocused: "false"},
			tracked: true,
			curr:    map[string]string{attrFocused: "false"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewlyFocused(tt.prev, tt.tracked, tt.curr); got != tt.want {
				t.Errorf("NewlyFocused() = %v, want %v", got, tt.want)
			}
		})
	}
}
