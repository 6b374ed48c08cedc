package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"slot": "color"}
	evt := Event{
		Verb:       " slot.created ",
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " frame ",
		ObjectID:   " apple ",
		Channel:    " frames ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "slot.created" || got.ObjectType != "frame" || got.ObjectID != "apple" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "frames" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["slot"] = "changed"
	if evt.Metadata["slot"] != "color" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	if err := hooks.Notify(context.Background(), Event{Verb: VerbFrameCreated}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	errFirst := errors.New("boom1")
	errSecond := errors.New("boom2")
	capture := &CaptureHook{}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			if ctx != nil {
				ctxSeen = true
			}
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return errFirst }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return errSecond }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbFrameCreated, ObjectType: ObjectTypeFrame, ObjectID: "apple"})
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}
	event := Event{Verb: VerbFrameCreated, ObjectType: ObjectTypeFrame, ObjectID: "apple"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true, ActorID: "system", TenantID: "acme"})
	if !enabled.Enabled() {
		t.Fatalf("expected emitter to be enabled")
	}
	if err := enabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(capture.Events))
	}
	got := capture.Events[0]
	if got.Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", got.Channel)
	}
	if got.ActorID != "system" || got.TenantID != "acme" {
		t.Fatalf("expected actor and tenant defaults, got %+v", got)
	}
}

func TestEmitterPreservesExplicitFields(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default", ActorID: "system"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbSlotCreated,
		ObjectType: ObjectTypeFrame,
		ObjectID:   "apple",
		Channel:    "custom",
		ActorID:    "alice",
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := capture.Events[0]
	if got.Channel != "custom" || got.ActorID != "alice" {
		t.Fatalf("expected explicit fields preserved, got %+v", got)
	}
	if !got.OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at preserved, got %v", got.OccurredAt)
	}
}

func TestEmitterWithoutHooksIsDisabled(t *testing.T) {
	emitter := NewEmitter(Hooks{nil}, Config{Enabled: true})
	if emitter.Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}
	var missing *Emitter
	if missing.Enabled() {
		t.Fatalf("expected nil emitter to be disabled")
	}
}

func TestEventRoutable(t *testing.T) {
	cases := []struct {
		event Event
		want  bool
	}{
		{Event{Verb: VerbFrameCreated, ObjectType: ObjectTypeFrame, ObjectID: "apple"}, true},
		{Event{Verb: VerbFrameCreated, ObjectType: ObjectTypeFrame}, false},
		{Event{ObjectType: ObjectTypeFrame, ObjectID: "apple"}, false},
		{Event{}, false},
	}
	for _, tc := range cases {
		if got := tc.event.Routable(); got != tc.want {
			t.Fatalf("Routable(%+v) = %v, want %v", tc.event, got, tc.want)
		}
	}
}

func TestCloneMetadataDropsEmptyMaps(t *testing.T) {
	if CloneMetadata(map[string]any{}) != nil {
		t.Fatalf("expected empty metadata to clone to nil")
	}
	src := map[string]any{"frame": "apple"}
	out := CloneMetadata(src)
	out["frame"] = "pear"
	if src["frame"] != "apple" {
		t.Fatalf("expected clone to be independent, got %v", src)
	}
}
