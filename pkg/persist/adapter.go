package persist

import (
	"context"
	"time"

	frames "github.com/goliatone/go-frames"
)

// Adapter loads and stores frames of Registry through Store. Failures are
// reported as false; the underlying error goes to Logger.
type Adapter struct {
	Registry *frames.Registry
	Store    Store
	Logger   frames.Logger
}

// NewAdapter wires registry to store.
func NewAdapter(registry *frames.Registry, store Store, logger frames.Logger) *Adapter {
	return &Adapter{Registry: registry, Store: store, Logger: logger}
}

// LoadFrame loads resource id into the registry under the same id.
func (a *Adapter) LoadFrame(ctx context.Context, id string) bool {
	return a.LoadFrameAs(ctx, id, id)
}

// LoadFrameAs loads resource into the registry as frame id. It fails when id
// is already resident or the resource does not exist.
func (a *Adapter) LoadFrameAs(ctx context.Context, resource, id string) bool {
	start := time.Now()
	if a.Registry == nil || a.Store == nil || a.Registry.FrameExists(id) {
		a.log("load", id, resource, false, nil, start)
		return false
	}
	rec, ok, err := a.Store.Load(ctx, resource)
	if err != nil || !ok {
		a.log("load", id, resource, false, err, start)
		return false
	}
	ok = a.Registry.Import(id, rec)
	a.log("load", id, resource, ok, nil, start)
	return ok
}

// StoreFrame saves frame id under the same resource id.
func (a *Adapter) StoreFrame(ctx context.Context, id string) bool {
	start := time.Now()
	if a.Registry == nil || a.Store == nil {
		a.log("store", id, id, false, nil, start)
		return false
	}
	rec, ok := a.Registry.Export(id)
	if !ok {
		a.log("store", id, id, false, nil, start)
		return false
	}
	err := a.Store.Save(ctx, id, rec)
	a.log("store", id, id, err == nil, err, start)
	return err == nil
}

// LoadFrameset loads the frameset id and then each member it lists.
func (a *Adapter) LoadFrameset(ctx context.Context, id string) bool {
	if !a.LoadFrame(ctx, id) {
		return false
	}
	for _, member := range a.Registry.Frameset(id).Members() {
		if !a.LoadFrame(ctx, member) {
			return false
		}
	}
	return true
}

// StoreFrameset stores the frameset id and then each of its members.
func (a *Adapter) StoreFrameset(ctx context.Context, id string) bool {
	if !a.StoreFrame(ctx, id) {
		return false
	}
	for _, member := range a.Registry.Frameset(id).Members() {
		if !a.StoreFrame(ctx, member) {
			return false
		}
	}
	return true
}

func (a *Adapter) log(op, id, resource string, ok bool, err error, start time.Time) {
	if a.Logger == nil {
		return
	}
	a.Logger.Log(frames.LogEvent{
		Kind:     frames.EventPersist,
		Op:       op,
		Frame:    id,
		Target:   resource,
		OK:       ok,
		Duration: time.Since(start),
		Err:      err,
	})
}
