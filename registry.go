package frames

import (
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-frames/pkg/activity"
)

// Registry owns every frame. It is an explicit store: construct one with New,
// hand it to whatever needs frames, drop it when done.
//
// A Registry is not safe for concurrent use. Bodies run synchronously on the
// caller's goroutine and may re-enter any Registry operation.
type Registry struct {
	frames     map[string]*frame
	generation uint64
	cfg        registryConfig
	methods    *MethodTable
	emitter    *activity.Emitter
	builtins   *FunctionRegistry
	evaluator  Evaluator
}

// New constructs an empty Registry.
func New(opts ...Option) *Registry {
	cfg := applyOptions(opts)
	methods := cfg.methods
	if methods == nil {
		methods = NewMethodTable()
	}
	return &Registry{
		frames:  map[string]*frame{},
		cfg:     cfg,
		methods: methods,
		emitter: activity.NewEmitter(cfg.activityHooks, activity.Config{
			Enabled:  len(cfg.activityHooks) > 0,
			Channel:  cfg.activityChannel,
			ActorID:  cfg.activityActor,
			TenantID: cfg.activityTenant,
		}),
	}
}

// Methods returns the table used to resolve named bodies.
func (r *Registry) Methods() *MethodTable {
	return r.methods
}

func (r *Registry) nextGen() uint64 {
	r.generation++
	return r.generation
}

// FrameExists reports whether id names a frame.
func (r *Registry) FrameExists(id string) bool {
	_, ok := r.frames[id]
	return ok
}

// CreateFrame creates an empty frame.
func (r *Registry) CreateFrame(id string) bool {
	if !r.addFrame(id, false) {
		return false
	}
	r.emit(activity.VerbFrameCreated, id, "", "")
	return true
}

// CreateFrameset creates an empty frame that also owns a membership set.
func (r *Registry) CreateFrameset(id string) bool {
	if !r.addFrame(id, true) {
		return false
	}
	r.emit(activity.VerbFrameCreated, id, "", "set")
	return true
}

func (r *Registry) addFrame(id string, frameset bool) bool {
	if id == "" || r.FrameExists(id) {
		return false
	}
	f := &frame{id: id, gen: r.nextGen(), slots: map[string]*slot{}, frameset: frameset}
	if frameset {
		f.members = []string{}
	}
	r.frames[id] = f
	return true
}

// RemoveFrame deletes the frame and all of its slots. Memberships that list
// the frame are left untouched.
func (r *Registry) RemoveFrame(id string) bool {
	if !r.FrameExists(id) {
		return false
	}
	delete(r.frames, id)
	r.emit(activity.VerbFrameRemoved, id, "", "")
	return true
}

// RemoveFrameset removes a frame created with CreateFrameset.
func (r *Registry) RemoveFrameset(id string) bool {
	if !r.IsFrameset(id) {
		return false
	}
	return r.RemoveFrame(id)
}

// IsFrameset reports whether id names a frame owning a membership set.
func (r *Registry) IsFrameset(id string) bool {
	f, ok := r.frames[id]
	return ok && f.frameset
}

// ListFrames returns every frame id in lexical order.
func (r *Registry) ListFrames() []string {
	ids := make([]string, 0, len(r.frames))
	for id := range r.frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) lookup(frameID, slotName string) (slotRef, *slot, bool) {
	f, ok := r.frames[frameID]
	if !ok {
		return slotRef{}, nil, false
	}
	s, ok := f.slots[slotName]
	if !ok {
		return slotRef{}, nil, false
	}
	return slotRef{frameID: frameID, slotName: slotName, frameGen: f.gen, slotGen: s.gen}, s, true
}

// live re-resolves at and fails when the frame or slot was removed or
// replaced since at was taken.
func (r *Registry) live(at slotRef) (*slot, bool) {
	f, ok := r.frames[at.frameID]
	if !ok || f.gen != at.frameGen {
		return nil, false
	}
	s, ok := f.slots[at.slotName]
	if !ok || s.gen != at.slotGen {
		return nil, false
	}
	return s, true
}

// fire runs the demon of kind attached to the slot at, if any. The outcome
// is logged and otherwise discarded.
func (r *Registry) fire(at slotRef, kind DemonKind, args []string) {
	s, ok := r.live(at)
	if !ok {
		return
	}
	body := s.demons[kind]
	if body == nil {
		return
	}
	_, _ = r.invoke(EventHook, body, CallContext{
		FrameID:  at.frameID,
		SlotName: at.slotName,
		Demon:    kind,
		Args:     append([]string{}, args...),
	})
}

func (r *Registry) invoke(kind EventKind, body Body, call CallContext) (result any, err error) {
	if body == nil {
		return nil, nil
	}
	call.Registry = r
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrBodyPanic, p)
		}
		err = wrapBodyError(body, call, err)
		r.log(LogEvent{
			Kind:     kind,
			Op:       "invoke",
			Frame:    call.FrameID,
			Slot:     call.SlotName,
			Demon:    call.Demon,
			OK:       err == nil,
			Duration: time.Since(start),
			Err:      err,
		})
	}()
	return body.Invoke(call)
}
