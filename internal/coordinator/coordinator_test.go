package coordinator

import (
	"errors"
	"testing"
	"time"

	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/intent"
	"github.com/clarityai/clarity/go-engine/internal/predict"
	"github.com/clarityai/clarity/go-engine/internal/usage"
)

// testCoordinator returns a coordinator with a controllable clock.
func testCoordinator(t *testing.T, cfg Config) (*Coordinator, *usage.Tracker, *time.Time) {
	t.Helper()
	tracker := usage.NewTracker(0)
	c := New(cfg, tracker, nil)
	now := time.UnixMilli(1_700_000_000_000)
	c.now = func() time.Time { return now }
	// Re-anchor the initial state to the fake clock.
	c.state.LastTransitionAt = now.UnixMilli()
	return c, tracker, &now
}

func TestApplyIntentThreshold(t *testing.T) {
	tests := []struct {
		name     string
		res      intent.Result
		wantFire bool
	}{
		{"above", intent.Result{Suggestion: feature.Timeline, Confidence: 0.9, Reason: "kw"}, true},
		{"exactly-threshold", intent.Result{Suggestion: feature.Timeline, Confidence: 0.4}, false},
		{"below", intent.Result{Suggestion: feature.Timeline, Confidence: 0.3}, false},
		{"no-suggestion", intent.Result{Confidence: 0.9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, tracker, _ := testCoordinator(t, DefaultConfig())
			cmd := c.ApplyIntent(tt.res)
			if tt.wantFire {
				if cmd == nil {
					t.Fatal("expected a transition command")
				}
				if cmd.TargetFeature != feature.Timeline || cmd.Kind != CommandKindTransition {
					t.Fatalf("unexpected command %+v", cmd)
				}
				if c.State().Mode != feature.Timeline {
					t.Fatalf("mode = %s, want timeline", c.State().Mode)
				}
				if tracker.Snapshot().Transitions != 1 {
					t.Fatal("expected one recorded transition event")
				}
				return
			}
			if cmd != nil {
				t.Fatalf("unexpected command %+v", cmd)
			}
			if c.State().Mode != feature.Chat {
				t.Fatalf("mode = %s, want chat (unchanged)", c.State().Mode)
			}
			if tracker.Snapshot().Transitions != 0 {
				t.Fatal("no event must be recorded without a transition")
			}
		})
	}
}

func TestSelfTransitionGuard(t *testing.T) {
	c, tracker, _ := testCoordinator(t, DefaultConfig())

	cmd, err := c.Request(feature.Chat, "already here")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if cmd != nil {
		t.Fatalf("self-transition produced command %+v", cmd)
	}
	if tracker.Snapshot().Transitions != 0 {
		t.Fatal("self-transition recorded an event")
	}
	if got := c.PollCommands(); got != nil {
		t.Fatalf("self-transition enqueued commands: %+v", got)
	}
}

func TestRequestInvalidFeature(t *testing.T) {
	c, _, _ := testCoordinator(t, DefaultConfig())
	if _, err := c.Request(feature.ID("settings"), ""); !errors.Is(err, feature.ErrUnknownFeature) {
		t.Fatalf("expected ErrUnknownFeature, got %v", err)
	}
}

func TestApplyPrediction(t *testing.T) {
	tests := []struct {
		name         string
		confidence   float64
		timeInModeMs int64
		wantFire     bool
	}{
		{"fires", 0.8, 12_000, true},
		{"dwell-too-short", 0.8, 9_999, false},
		{"dwell-exactly-min", 0.8, 10_000, true},
		{"confidence-at-threshold", 0.6, 60_000, false},
		{"confidence-below", 0.2, 60_000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := testCoordinator(t, DefaultConfig())
			res := predict.Result{Feature: feature.Storyboard, Confidence: tt.confidence, Reasoning: "r"}
			cmd := c.ApplyPrediction(res, tt.timeInModeMs)

			// The prediction is always recorded on the state snapshot.
			st := c.State()
			if st.Prediction != feature.Storyboard || st.Confidence != tt.confidence {
				t.Fatalf("prediction not recorded: %+v", st)
			}

			if tt.wantFire && cmd == nil {
				t.Fatal("expected transition")
			}
			if !tt.wantFire && cmd != nil {
				t.Fatalf("unexpected transition %+v", cmd)
			}
		})
	}
}

func TestTransitionDurationAndContext(t *testing.T) {
	c, tracker, now := testCoordinator(t, DefaultConfig())

	*now = now.Add(7 * time.Second)
	cmd, err := c.Request(feature.Timeline, "user clicked")
	if err != nil || cmd == nil {
		t.Fatalf("Request: cmd=%v err=%v", cmd, err)
	}

	events := tracker.Recent(1)
	if len(events) != 1 {
		t.Fatal("expected one event")
	}
	ev := events[0]
	if ev.DurationMs != 7000 {
		t.Fatalf("duration = %d, want 7000", ev.DurationMs)
	}
	if ev.From != feature.Chat || ev.To != feature.Timeline {
		t.Fatalf("event pair = %s->%s", ev.From, ev.To)
	}
	if ev.Context["trigger"] != "manual" || ev.Context["previous_mode"] != "chat" {
		t.Fatalf("context = %+v", ev.Context)
	}
	if c.State().LastTransitionAt != now.UnixMilli() {
		t.Fatal("LastTransitionAt not advanced")
	}
}

func TestPollDrainOnce(t *testing.T) {
	c, _, _ := testCoordinator(t, DefaultConfig())

	if _, err := c.Request(feature.Timeline, ""); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := c.Request(feature.Storyboard, ""); err != nil {
		t.Fatalf("Request: %v", err)
	}

	first := c.PollCommands()
	if len(first) != 2 {
		t.Fatalf("first poll returned %d commands, want 2", len(first))
	}
	if first[0].TargetFeature != feature.Timeline || first[1].TargetFeature != feature.Storyboard {
		t.Fatalf("commands out of order: %+v", first)
	}
	if second := c.PollCommands(); second != nil {
		t.Fatalf("second poll returned %+v, want nil", second)
	}
}

func TestQueueCapDropsOldest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueCap = 2
	c, _, _ := testCoordinator(t, cfg)

	targets := []feature.ID{feature.Timeline, feature.Storyboard, feature.Chat}
	for _, f := range targets {
		if _, err := c.Request(f, ""); err != nil {
			t.Fatalf("Request(%s): %v", f, err)
		}
	}

	got := c.PollCommands()
	if len(got) != 2 {
		t.Fatalf("queue length = %d, want 2", len(got))
	}
	if got[0].TargetFeature != feature.Storyboard || got[1].TargetFeature != feature.Chat {
		t.Fatalf("wrong survivors: %+v", got)
	}
}

func TestCommandIDsUnique(t *testing.T) {
	c, _, _ := testCoordinator(t, DefaultConfig())
	// Same fake-clock millisecond for both transitions.
	c.Request(feature.Timeline, "")
	c.Request(feature.Chat, "")
	cmds := c.PollCommands()
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if cmds[0].ID == cmds[1].ID {
		t.Fatalf("duplicate command ids: %s", cmds[0].ID)
	}
}

// fakeJournal records appended transitions and can be told to fail.
type fakeJournal struct {
	entries []usage.TransitionEvent
	trigger []Trigger
	fail    bool
}

func (f *fakeJournal) AppendTransition(ev usage.TransitionEvent, trigger Trigger, commandID string) error {
	if f.fail {
		return errors.New("journal down")
	}
	f.entries = append(f.entries, ev)
	f.trigger = append(f.trigger, trigger)
	return nil
}

func TestJournalReceivesTransitions(t *testing.T) {
	c, _, _ := testCoordinator(t, DefaultConfig())
	j := &fakeJournal{}
	c.AttachJournal(j)

	c.ApplyIntent(intent.Result{Suggestion: feature.Timeline, Confidence: 0.9, Reason: "kw"})
	if len(j.entries) != 1 {
		t.Fatalf("journal got %d entries, want 1", len(j.entries))
	}
	if j.trigger[0] != TriggerIntent {
		t.Fatalf("trigger = %s, want intent", j.trigger[0])
	}
}

func TestJournalFailureDoesNotBlockTransition(t *testing.T) {
	c, _, _ := testCoordinator(t, DefaultConfig())
	c.AttachJournal(&fakeJournal{fail: true})

	cmd, err := c.Request(feature.Storyboard, "")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if cmd == nil {
		t.Fatal("journal failure must not block the transition")
	}
	if c.State().Mode != feature.Storyboard {
		t.Fatalf("mode = %s, want storyboard", c.State().Mode)
	}
}
