package activity

import (
	"context"
	"slices"
	"strings"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "frames"

// Config controls emission defaults.
type Config struct {
	Enabled  bool
	Channel  string
	ActorID  string
	TenantID string
}

// Emitter stamps registry defaults onto events before handing them to hooks.
// A nil Emitter never emits.
type Emitter struct {
	hooks    Hooks
	defaults Event
}

// NewEmitter returns an emitter over the non-nil hooks. It stays disabled
// unless cfg.Enabled is set and at least one hook remains.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	live := slices.DeleteFunc(slices.Clone(hooks), func(h ActivityHook) bool { return h == nil })
	if !cfg.Enabled || len(live) == 0 {
		live = nil
	}
	defaults := NormalizeEvent(Event{
		Channel:  cfg.Channel,
		ActorID:  cfg.ActorID,
		TenantID: cfg.TenantID,
	})
	if defaults.Channel == "" {
		defaults.Channel = DefaultChannel
	}
	return &Emitter{hooks: live, defaults: defaults}
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.hooks.Enabled()
}

// Emit notifies every hook. Blank channel, actor and tenant take the
// emitter's defaults.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	fill(&event.Channel, e.defaults.Channel)
	fill(&event.ActorID, e.defaults.ActorID)
	fill(&event.TenantID, e.defaults.TenantID)
	return e.hooks.Notify(ctx, event)
}

func fill(field *string, fallback string) {
	if strings.TrimSpace(*field) == "" {
		*field = fallback
	}
}
