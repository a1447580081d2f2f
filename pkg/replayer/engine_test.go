package replayer

import (
	"context"
	"testing"
	"time"

	"github.com/devicelab-dev/interaction-recorder/pkg/core"
	"github.com/devicelab-dev/interaction-recorder/pkg/driver/mock"
	"github.com/devicelab-dev/interaction-recorder/pkg/recording"
)

func newTestEngine(device *mock.Device) *Engine {
	e := New(device, Config{
		EventDelay:      time.Millisecond,
		ResolveTimeout:  2 * time.Millisecond,
		ResolveInterval: time.Millisecond,
	})
	e.sleep = func(context.Context, time.Duration) {}
	return e
}

func appScreen() mock.Screen {
	return mock.Screen{
		Activity: "com.example.MainActivity",
		Source:   "<hierarchy/>",
		Elements: []mock.Element{
			{
				Handle:    "el-btn",
				Displayed: true,
				Attrs: map[string]string{
					"resource-id": "com.example:id/btn_submit",
					"text":        "Submit",
					"enabled":     "true",
				},
			},
			{
				Handle:    "el-field",
				Displayed: true,
				Attrs: map[string]string{
					"resource-id": "com.example:id/field",
					"enabled":     "true",
				},
			},
			{
				Handle:    "el-list",
				Displayed: true,
				Attrs: map[string]string{
					"resource-id": "com.example:id/list",
					"enabled":     "true",
				},
			},
		},
	}
}

func TestEngine_Replay(t *testing.T) {
	device := mock.New(appScreen())
	engine := newTestEngine(device)

	rec := &recording.Recording{Events: []recording.InteractionEvent{
		{Type: recording.ActionActivityChange, Activity: "com.example.MainActivity"},
		{
			Type:   recording.ActionButtonClick,
			Widget: &recording.Widget{ID: "com.example:id/btn_submit"},
		},
		{
			Type:        recording.ActionTextInput,
			Widget:      &recording.Widget{ID: "com.example:id/field"},
			StateChange: map[string]string{"text": "hello world"},
		},
		{
			Type:   recording.ActionScroll,
			Widget: &recording.Widget{ID: "com.example:id/list", Bounds: "[100,200][300,400]"},
		},
	}}

	summary, err := engine.Replay(context.Background(), rec)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}

	// The activity marker is the only skip: navigation happens via the taps.
	if summary.Total != 4 || summary.Executed != 3 || summary.Skipped != 1 {
		t.Errorf("summary = %+v", summary)
	}

	want := []string{
		"tap:el-btn",
		"clear:el-field",
		"keys:el-field:hello world",
		"swipe:200,300-200,200",
	}
	if len(device.Actions) != len(want) {
		t.Fatalf("actions = %v, want %v", device.Actions, want)
	}
	for i, action := range want {
		if device.Actions[i] != action {
			t.Errorf("action[%d] = %q, want %q", i, device.Actions[i], action)
		}
	}
}

func TestEngine_TextInputPlaceholder(t *testing.T) {
	device := mock.New(appScreen())
	engine := newTestEngine(device)

	rec := &recording.Recording{Events: []recording.InteractionEvent{
		{
			// No recorded text: the configured placeholder goes in.
			Type:   recording.ActionTextInput,
			Widget: &recording.Widget{ID: "com.example:id/field"},
		},
	}}

	if _, err := engine.Replay(context.Background(), rec); err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if len(device.Actions) != 2 || device.Actions[1] != "keys:el-field:"+DefaultInputText {
		t.Errorf("actions = %v", device.Actions)
	}
}

func TestEngine_FallbackChain(t *testing.T) {
	device := mock.New(appScreen())
	engine := newTestEngine(device)

	// The recorded id no longer exists; the visible text still matches.
	rec := &recording.Recording{Events: []recording.InteractionEvent{
		{
			Type:   recording.ActionButtonClick,
			Widget: &recording.Widget{ID: "com.example:id/renamed", Text: "Submit"},
		},
	}}

	summary, err := engine.Replay(context.Background(), rec)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if summary.Executed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(device.Actions) != 1 || device.Actions[0] != "tap:el-btn" {
		t.Errorf("actions = %v", device.Actions)
	}
}

func TestEngine_UnresolvableSkipsAndContinues(t *testing.T) {
	device := mock.New(appScreen())
	engine := newTestEngine(device)

	rec := &recording.Recording{Events: []recording.InteractionEvent{
		{
			Type:   recording.ActionClick,
			Widget: &recording.Widget{ID: "com.example:id/gone"},
		},
		{
			Type:   recording.ActionButtonClick,
			Widget: &recording.Widget{ID: "com.example:id/btn_submit"},
		},
	}}

	summary, err := engine.Replay(context.Background(), rec)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if summary.Executed != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if len(device.Actions) != 1 || device.Actions[0] != "tap:el-btn" {
		t.Errorf("later events must still run, actions = %v", device.Actions)
	}
}

func TestEngine_InteractabilityPrecondition(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		shown bool
	}{
		{"hidden element", map[string]string{"resource-id": "com.example:id/x", "enabled": "true"}, false},
		{"disabled element", map[string]string{"resource-id": "com.example:id/x", "enabled": "false"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := mock.New(mock.Screen{
				Activity: "Main",
				Elements: []mock.Element{{Handle: "el-x", Displayed: tt.shown, Attrs: tt.attrs}},
			})
			engine := newTestEngine(device)

			rec := &recording.Recording{Events: []recording.InteractionEvent{
				{Type: recording.ActionClick, Widget: &recording.Widget{ID: "com.example:id/x"}},
			}}

			summary, err := engine.Replay(context.Background(), rec)
			if err != nil {
				t.Fatalf("Replay() failed: %v", err)
			}
			if summary.Skipped != 1 || len(device.Actions) != 0 {
				t.Errorf("summary = %+v, actions = %v", summary, device.Actions)
			}
		})
	}
}

func TestEngine_FatalFindAbortsRetry(t *testing.T) {
	device := mock.New(appScreen())
	device.FailFind = core.ErrServerUnreachable
	engine := newTestEngine(device)

	rec := &recording.Recording{Events: []recording.InteractionEvent{
		{Type: recording.ActionClick, Widget: &recording.Widget{ID: "com.example:id/btn_submit"}},
	}}

	summary, err := engine.Replay(context.Background(), rec)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if summary.Skipped != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestStrategies(t *testing.T) {
	tests := []struct {
		name   string
		widget recording.Widget
		want   []string
	}{
		{
			name:   "all attributes",
			widget: recording.Widget{ID: "id/x", Text: "OK", ContentDesc: "Confirm"},
			want:   []string{"resource id", "text", "content description"},
		},
		{
			name:   "apostrophe text excluded",
			widget: recording.Widget{Text: "Don't"},
			want:   nil,
		},
		{
			name:   "description only",
			widget: recording.Widget{ContentDesc: "Menu"},
			want:   []string{"content description"},
		},
		{
			name: "nothing locatable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := strategies(&tt.widget)
			if len(chain) != len(tt.want) {
				t.Fatalf("got %d strategies, want %d", len(chain), len(tt.want))
			}
			for i, name := range tt.want {
				if chain[i].name != name {
					t.Errorf("strategy[%d] = %q, want %q", i, chain[i].name, name)
				}
			}
		})
	}
}

func TestEngine_CancelStopsRun(t *testing.T) {
	device := mock.New(appScreen())
	engine := newTestEngine(device)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recording.Recording{Events: []recording.InteractionEvent{
		{Type: recording.ActionClick, Widget: &recording.Widget{ID: "com.example:id/btn_submit"}},
	}}

	summary, err := engine.Replay(ctx, rec)
	if err == nil {
		t.Fatal("expected context error")
	}
	if summary.Executed != 0 || len(device.Actions) != 0 {
		t.Errorf("no events should run after cancellation: %+v, %v", summary, device.Actions)
	}
}
