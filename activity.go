package frames

import (
	"context"

	"github.com/goliatone/go-frames/pkg/activity"
)

// ActivityHooks returns a copy of the configured activity hooks.
func (r *Registry) ActivityHooks() activity.Hooks {
	if r == nil {
		return nil
	}
	return cloneActivityHooks(r.cfg.activityHooks)
}

func (r *Registry) emit(verb, frameID, slotName, facet string) {
	if !r.emitter.Enabled() {
		return
	}
	event := activity.BuildFrameEvent(verb, activity.FrameEventInput{
		Frame: frameID,
		Slot:  slotName,
		Facet: facet,
	})
	if err := r.emitter.Emit(context.Background(), event); err != nil {
		r.log(LogEvent{
			Kind:    EventActivity,
			Op:      verb,
			Frame:   frameID,
			Slot:    slotName,
			Err:     err,
			Message: "activity hook failed",
		})
	}
}
