package recorder

import (
	"strings"

	"github.com/devicelab-dev/interaction-recorder/pkg/recording"
)

// Signal is the classifier input for one element in one cycle: its captured
// state plus the diff and heuristic flags.
type Signal struct {
	Identity       string
	State          map[string]string
	StateChanged   bool
	NewlyFocused   bool
	DebouncedClick bool
}

// Detected reports whether any detection path fired. Only detected signals
// reach classification.
func (s Signal) Detected() bool {
	return s.StateChanged || s.NewlyFocused || s.DebouncedClick
}

func (s Signal) class() string {
	return strings.ToLower(s.State[attrClass])
}

// Rule is one classification rule. Rules are evaluated in order and the
// first match wins; the ordering is a deliberate precedence, not incidental.
type Rule struct {
	Name  string
	Match func(Signal) (recording.ActionType, bool)
}

// Rules returns the ordered classification rule list.
func Rules() []Rule {
	return []Rule{
		{
			Name: "debounced click",
			Match: func(s Signal) (recording.ActionType, bool) {
				return recording.ActionButtonClick, s.DebouncedClick
			},
		},
		{
			Name: "input gained focus",
			Match: func(s Signal) (recording.ActionType, bool) {
				return recording.ActionTextInput, s.NewlyFocused && strings.Contains(s.class(), "edittext")
			},
		},
		{
			Name: "edit text",
			Match: func(s Signal) (recording.ActionType, bool) {
				if !strings.Contains(s.class(), "edittext") {
					return recording.ActionUnknown, false
				}
				if s.State[attrFocused] == "true" {
					return recording.ActionTextInput, true
				}
				// An unfocused edit text is not an interaction.
				return recording.ActionUnknown, true
			},
		},
		{
			Name: "clickable button",
			Match: func(s Signal) (recording.ActionType, bool) {
				return recording.ActionButtonClick,
					strings.Contains(s.class(), "button") && s.State[attrClickable] == "true"
			},
		},
		{
			Name: "image button",
			Match: func(s Signal) (recording.ActionType, bool) {
				return recording.ActionButtonClick, strings.Contains(s.class(), "imagebutton")
			},
		},
		{
			Name: "checked",
			Match: func(s Signal) (recording.ActionType, bool) {
				return recording.ActionCheckbox, s.State[attrChecked] == "true"
			},
		},
		{
			Name: "selected",
			Match: func(s Signal) (recording.ActionType, bool) {
				return recording.ActionSelection, s.State[attrSelected] == "true"
			},
		},
		{
			Name: "clickable",
			Match: func(s Signal) (recording.ActionType, bool) {
				return recording.ActionClick, s.State[attrClickable] == "true"
			},
		},
		{
			Name: "scrollable",
			Match: func(s Signal) (recording.ActionType, bool) {
				return recording.ActionScroll, s.State[attrScrollable] == "true"
			},
		},
	}
}

// Classify maps a signal to exactly one action type, first matching rule
// wins. Unmatched signals are unknown and never recorded.
func Classify(sig Signal) recording.ActionType {
	for _, rule := range Rules() {
		if action, ok := rule.Match(sig); ok {
			return action
		}
	}
	return recording.ActionUnknown
}
