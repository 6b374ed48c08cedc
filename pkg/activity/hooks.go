package activity

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"
)

// Event describes a committed change to the frame registry. IDs are plain
// strings; sinks parse them into whatever their store needs.
type Event struct {
	Verb       string
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Routable reports whether the event names a verb and an object. Hooks
// drop events that are not.
func (e Event) Routable() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// ActivityHook receives normalized activity events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []ActivityHook

func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify hands the normalized event to every hook in order and joins the
// errors they return.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if !h.Enabled() {
		return nil
	}
	event = NormalizeEvent(event)
	if !event.Routable() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		errs = append(errs, hook.Notify(ctx, event))
	}
	return errors.Join(errs...)
}

// NormalizeEvent trims ids, copies metadata and stamps OccurredAt when unset.
func NormalizeEvent(event Event) Event {
	for _, field := range []*string{
		&event.Verb,
		&event.ActorID,
		&event.UserID,
		&event.TenantID,
		&event.ObjectType,
		&event.ObjectID,
		&event.Channel,
	} {
		*field = strings.TrimSpace(*field)
	}
	event.Metadata = CloneMetadata(event.Metadata)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return event
}

// CloneMetadata returns a shallow copy of meta, nil when it is empty.
func CloneMetadata(meta map[string]any) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	return maps.Clone(meta)
}
