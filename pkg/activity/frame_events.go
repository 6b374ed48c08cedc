package activity

import (
	"strings"
	"time"
)

// Verbs emitted by the frame registry.
const (
	VerbFrameCreated     = "frame.created"
	VerbFrameRemoved     = "frame.removed"
	VerbSlotCreated      = "slot.created"
	VerbSlotRemoved      = "slot.removed"
	VerbFacetCreated     = "facet.created"
	VerbFacetRemoved     = "facet.removed"
	VerbFacetUpdated     = "facet.updated"
	VerbFramesetIncluded = "frameset.included"
	VerbFramesetExcluded = "frameset.excluded"
)

// ObjectTypeFrame is the object type of every frame event.
const ObjectTypeFrame = "frame"

// FrameEventInput describes where a change happened. Facet carries the facet
// name for facet events and the member id for frameset membership events.
type FrameEventInput struct {
	Frame      string
	Slot       string
	Facet      string
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildFrameEvent constructs the event for verb.
func BuildFrameEvent(verb string, input FrameEventInput) Event {
	metadata := CloneMetadata(input.Metadata)
	frame := strings.TrimSpace(input.Frame)
	metadata = ensureMetadata(metadata)
	metadata["frame"] = frame
	if input.Slot != "" {
		metadata["slot"] = input.Slot
	}
	if input.Facet != "" {
		key := "facet"
		if verb == VerbFramesetIncluded || verb == VerbFramesetExcluded {
			key = "member"
		}
		metadata[key] = input.Facet
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeFrame,
		ObjectID:   frame,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
