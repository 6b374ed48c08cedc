package frames

import "fmt"

// Builtins returns the functions expression bodies use to reach back into
// r, merged with any registered through WithFunction:
//
//	frameExists(frame)               bool
//	slotExists(frame, slot)          bool
//	getValue(frame, slot)            []string, nil when absent
//	putValue(frame, slot, tokens...) bool
//	createSlot(frame, slot)          bool
//	removeSlot(frame, slot)          bool
//	createValue(frame, slot)         bool
//	execMethod(frame, slot, args...) bool
//
// List arguments to putValue and execMethod are flattened into tokens.
func (r *Registry) Builtins() *FunctionRegistry {
	if r.builtins != nil {
		return r.builtins
	}
	fns := NewFunctionRegistry()
	_ = fns.Register("frameExists", func(args ...any) (any, error) {
		frameID, err := stringArgs("frameExists", args, 1)
		if err != nil {
			return nil, err
		}
		return r.FrameExists(frameID[0]), nil
	})
	_ = fns.Register("slotExists", r.slotFunction("slotExists", r.SlotExists))
	_ = fns.Register("createSlot", r.slotFunction("createSlot", r.CreateSlot))
	_ = fns.Register("removeSlot", r.slotFunction("removeSlot", r.RemoveSlot))
	_ = fns.Register("createValue", r.slotFunction("createValue", r.CreateValue))
	_ = fns.Register("getValue", func(args ...any) (any, error) {
		ids, err := stringArgs("getValue", args, 2)
		if err != nil {
			return nil, err
		}
		value, ok := r.GetValue(ids[0], ids[1])
		if !ok {
			return nil, nil
		}
		return value, nil
	})
	_ = fns.Register("putValue", r.tokenFunction("putValue", r.PutValue))
	_ = fns.Register("execMethod", r.tokenFunction("execMethod", r.ExecMethod))
	fns.Merge(r.cfg.functions)
	r.builtins = fns
	return fns
}

func (r *Registry) slotFunction(name string, op func(frameID, slotName string) bool) Function {
	return func(args ...any) (any, error) {
		ids, err := stringArgs(name, args, 2)
		if err != nil {
			return nil, err
		}
		return op(ids[0], ids[1]), nil
	}
}

func (r *Registry) tokenFunction(name string, op func(frameID, slotName string, tokens ...string) bool) Function {
	return func(args ...any) (any, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("frames: %s expects frame and slot, got %d arguments", name, len(args))
		}
		ids, err := stringArgs(name, args[:2], 2)
		if err != nil {
			return nil, err
		}
		return op(ids[0], ids[1], flattenTokens(args[2:])...), nil
	}
}

func stringArgs(name string, args []any, want int) ([]string, error) {
	if len(args) != want {
		return nil, fmt.Errorf("frames: %s expects %d arguments, got %d", name, want, len(args))
	}
	out := make([]string, 0, want)
	for i, arg := range args {
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("frames: %s argument %d must be string, got %T", name, i, arg)
		}
		out = append(out, s)
	}
	return out, nil
}

func flattenTokens(args []any) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case []string:
			out = append(out, v...)
		case []any:
			out = append(out, flattenTokens(v)...)
		case string:
			out = append(out, v)
		case nil:
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}
