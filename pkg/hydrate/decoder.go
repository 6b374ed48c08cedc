// Package hydrate decodes the value facets of a frame into a typed struct.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	frames "github.com/goliatone/go-frames"
)

// ErrFrameNotFound is returned when the frame to decode does not exist.
var ErrFrameNotFound = errors.New("hydrate: frame not found")

// Context identifies the frame being decoded.
type Context struct {
	Frame string
}

// PreHook lets callers rewrite the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the decoded struct.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder turns frames into values of T. Each slot with a reachable value
// becomes a payload key; single token values decode as strings unless the
// slot is listed with WithLists.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	lists        map[string]struct{}
	configureDec []func(*json.Decoder)
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithLists keeps the named slots as token lists even when they hold a
// single token.
func WithLists[T any](slots ...string) DecoderOption[T] {
	return func(d *Decoder[T]) {
		for _, name := range slots {
			d.lists[name] = struct{}{}
		}
	}
}

// WithDisallowUnknownFields rejects slots T has no field for.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithValidation runs validate against the decoded struct. A nil validate
// uses a fresh validator.
func WithValidation[T any](validate *validator.Validate) DecoderOption[T] {
	if validate == nil {
		validate = validator.New()
	}
	return WithPostHook[T](func(ctx Context, out *T) error {
		if err := validate.Struct(out); err != nil {
			return fmt.Errorf("validate frame %q: %w", ctx.Frame, err)
		}
		return nil
	})
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{lists: map[string]struct{}{}}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Payload collects the frame's values through the registry, so references
// are followed and get demons fire.
func (d *Decoder[T]) Payload(r *frames.Registry, frameID string) (map[string]any, error) {
	if r == nil || !r.FrameExists(frameID) {
		return nil, fmt.Errorf("%w: %q", ErrFrameNotFound, frameID)
	}
	payload := map[string]any{}
	for _, slotName := range r.ListSlots(frameID) {
		if !r.ValueExists(frameID, slotName) {
			continue
		}
		tokens, ok := r.GetValue(frameID, slotName)
		if !ok {
			continue
		}
		if _, list := d.lists[slotName]; !list && len(tokens) == 1 {
			payload[slotName] = tokens[0]
			continue
		}
		payload[slotName] = tokens
	}
	return payload, nil
}

// Decode reads frameID from r into a T.
func (d *Decoder[T]) Decode(r *frames.Registry, frameID string) (T, error) {
	var zero T
	payload, err := d.Payload(r, frameID)
	if err != nil {
		return zero, err
	}
	return d.DecodePayload(Context{Frame: frameID}, payload)
}

// DecodePayload converts a payload built by Payload, or by hand, into T
// applying the configured hooks.
func (d *Decoder[T]) DecodePayload(ctx Context, payload map[string]any) (T, error) {
	var zero T
	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for frame %q", ctx.Frame)
	}
	current := payload
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for frame %q failed: %w", ctx.Frame, err)
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal frame %q: %w", ctx.Frame, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		configure(decoder)
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode frame %q: %w", ctx.Frame, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for frame %q failed: %w", ctx.Frame, err)
		}
	}
	return result, nil
}
