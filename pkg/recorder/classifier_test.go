package recorder

import (
	"testing"

	"github.com/devicelab-dev/interaction-recorder/pkg/recording"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		sig  Signal
		want recording.ActionType
	}{
		{
			name: "debounced click wins over everything",
			sig: Signal{
				State:          map[string]string{attrClass: "android.widget.EditText", attrFocused: "true"},
				DebouncedClick: true,
				NewlyFocused:   true,
			},
			want: recording.ActionButtonClick,
		},
		{
			name: "newly focused edit text",
			sig: Signal{
				State:        map[string]string{attrClass: "android.widget.EditText"},
				NewlyFocused: true,
			},
			want: recording.ActionTextInput,
		},
		{
			name: "focused edit text without focus transition",
			sig: Signal{
				State:        map[string]string{attrClass: "android.widget.EditText", attrFocused: "true"},
				StateChanged: true,
			},
			want: recording.ActionTextInput,
		},
		{
			name: "unfocused edit text is unknown",
			sig: Signal{
				State:        map[string]string{attrClass: "android.widget.EditText", attrClickable: "true"},
				StateChanged: true,
			},
			want: recording.ActionUnknown,
		},
		{
			name: "clickable button",
			sig: Signal{
				State:        map[string]string{attrClass: "android.widget.Button", attrClickable: "true"},
				StateChanged: true,
			},
			want: recording.ActionButtonClick,
		},
		{
			name: "image button without clickable attr",
			sig: Signal{
				State:        map[string]string{attrClass: "android.widget.ImageButton"},
				StateChanged: true,
			},
			want: recording.ActionButtonClick,
		},
		{
			name: "checked beats selected",
			sig: Signal{
				State:        map[string]string{attrChecked: "true", attrSelected: "true"},
				StateChanged: true,
			},
			want: recording.ActionCheckbox,
		},
		{
			name: "selected",
			sig: Signal{
				State:        map[string]string{attrSelected: "true"},
				StateChanged: true,
			},
			want: recording.ActionSelection,
		},
		{
			name: "plain clickable",
			sig: Signal{
				State:        map[string]string{attrClickable: "true"},
				StateChanged: true,
			},
			want: recording.ActionClick,
		},
		{
			name: "scrollable",
			sig: Signal{
				State:        map[string]string{attrScrollable: "true"},
				StateChanged: true,
			},
			want: recording.ActionScroll,
		},
		{
			name: "nothing matches",
			sig: Signal{
				State:        map[string]string{attrClass: "android.widget.TextView"},
				StateChanged: true,
			},
			want: recording.ActionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.sig); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Each rule must be addressable on its own: matching one rule's condition
// with all earlier rules' conditions absent yields that rule's action.
func TestRules_IndividuallyTestable(t *testing.T) {
	rules := Rules()
	if len(rules) != 9 {
		t.Fatalf("expected 9 rules, got %d", len(rules))
	}

	// "debounced click" is first: its flag alone classifies.
	action, ok := rules[0].Match(Signal{DebouncedClick: true})
	if !ok || action != recording.ActionButtonClick {
		t.Errorf("rule %q: got (%q, %v)", rules[0].Name, action, ok)
	}

	// "scrollable" is last.
	last := rules[len(rules)-1]
	action, ok = last.Match(Signal{State: map[string]string{attrScrollable: "true"}})
	if !ok || action != recording.ActionScroll {
		t.Errorf("rule %q: got (%q, %v)", last.Name, action, ok)
	}
}

func TestSignal_Detected(t *testing.T) {
	if (Signal{}).Detected() {
		t.Error("empty signal should not be detected")
	}
	if !(Signal{StateChanged: true}).Detected() {
		t.Error("state change should be detected")
	}
	if !(Signal{NewlyFocused: true}).Detected() {
		t.Error("focus transition should be detected")
	}
	if !(Signal{DebouncedClick: true}).Detected() {
		t.Error("debounced click should be detected")
	}
}
