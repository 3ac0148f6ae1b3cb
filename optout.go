package egress

import (
	"context"
	"reflect"
)

// OptOut exempts ep from enforcement. The interceptor passes results for ep
// through without any type lookup.
//
// The flag belongs to the endpoint value itself. Two endpoints never share
// it, even when their handlers come from the same function.
func (r *Registry) OptOut(ep *Endpoint) error {
	t, name, err := resolveTarget(ep)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.sealed {
		r.mu.Unlock()
		return newConfigError(ErrSealed, name)
	}
	key := metaKey{target: t, key: OptOutKey}
	if current, ok := r.meta[key]; ok {
		if _, isFlag := current.(bool); !isFlag {
			r.mu.Unlock()
			return newConfigError(ErrPrecondition, name)
		}
	}
	r.meta[key] = true
	r.mu.Unlock()

	emitOptOutRegistered(context.Background(), name)
	return nil
}

// OptedOut reports whether ep carries the opt-out flag.
func (r *Registry) OptedOut(ep *Endpoint) bool {
	if ep == nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	flag, _ := r.meta[metaKey{target: target{ep: ep}, key: OptOutKey}].(bool)
	return flag
}

// HandlerName returns the runtime name of a handler function, or "" when
// handler is not a function. It is used for naming only.
func HandlerName(handler any) string {
	rv := reflect.ValueOf(handler)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	return funcName(rv.Pointer())
}
