// Package usersink forwards frame activity to a go-users ActivitySink.
package usersink

import (
	"context"

	"github.com/goliatone/go-frames/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts frame activity events to a go-users ActivitySink. Registry
// events usually carry no actor; SystemActor is recorded for those.
type Hook struct {
	Sink        usertypes.ActivitySink
	SystemActor uuid.UUID
}

var _ activity.ActivityHook = Hook{}

// Notify records event on the sink. Events without a verb or object are
// dropped.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if !event.Routable() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, h.record(event))
}

func (h Hook) record(event activity.Event) usertypes.ActivityRecord {
	actor := idOrNil(event.ActorID)
	if actor == uuid.Nil {
		actor = h.SystemActor
	}
	return usertypes.ActivityRecord{
		ActorID:    actor,
		UserID:     idOrNil(event.UserID),
		TenantID:   idOrNil(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       event.Metadata,
		OccurredAt: event.OccurredAt,
	}
}

// idOrNil maps anything that is not a UUID, including frame ids, to uuid.Nil.
func idOrNil(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
