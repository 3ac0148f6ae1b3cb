package egress

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"runtime"
	"sync"
)

// Metadata keys used in the registry side-table.
const (
	ReturnAsKey = "egress:return-as"
	OptOutKey   = "egress:opt-out"
)

// Transform converts an entity into the shape declared for a response.
// It receives the handler's return value exactly as returned.
type Transform func(v any) (any, error)

// transformTable maps a desired type to the transform producing it.
type transformTable map[reflect.Type]Transform

// target identifies what a piece of metadata is attached to: a type or an
// endpoint.
type target struct {
	typ reflect.Type
	ep  *Endpoint
}

// metaKey combines target and metadata key for lookup.
type metaKey struct {
	target target
	key    string
}

// Registry holds declaration-time policy: transforms per entity type, opt-out
// flags per handler, and output shaping plans per declared type.
//
// Declarations happen during bootstrap. Seal closes the registry; after that
// it is read-only and every declaration fails with ErrSealed. NewInterceptor
// seals the registry it is given.
type Registry struct {
	mu     sync.RWMutex
	meta   map[metaKey]any
	shapes map[reflect.Type]*shapePlan
	selves map[reflect.Type]bool
	sealed bool
}

// NewRegistry creates an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{
		meta:   make(map[metaKey]any),
		shapes: make(map[reflect.Type]*shapePlan),
		selves: make(map[reflect.Type]bool),
	}
}

// Register declares that values of type entity may be returned as desired via fn.
// Registering the same pair again replaces fn; distinct desired types accumulate.
//
// Pointer types are normalized to their element type, so a registration for
// User also covers handlers returning *User.
func (r *Registry) Register(entity, desired reflect.Type, fn Transform) error {
	return r.register(entity, desired, fn, false)
}

// register stores fn for the pair. self marks an identity registration,
// whose output is the handler's own value and is never shaped.
func (r *Registry) register(entity, desired reflect.Type, fn Transform, self bool) error {
	if entity == nil || desired == nil {
		return newConfigError(ErrNilType, "")
	}
	entity, desired = baseType(entity), baseType(desired)
	if fn == nil {
		return newConfigError(ErrNilTransform, typeName(entity))
	}

	r.mu.Lock()
	if r.sealed {
		r.mu.Unlock()
		return newConfigError(ErrSealed, typeName(entity))
	}

	key := metaKey{target: target{typ: entity}, key: ReturnAsKey}
	var table transformTable
	if current, ok := r.meta[key]; ok {
		existing, isTable := current.(transformTable)
		if !isTable {
			r.mu.Unlock()
			return newConfigError(ErrPrecondition, typeName(entity))
		}
		table = maps.Clone(existing)
	} else {
		table = make(transformTable)
	}
	table[desired] = fn
	r.meta[key] = table
	if entity == desired {
		if self {
			r.selves[entity] = true
		} else {
			delete(r.selves, entity)
		}
	}
	r.mu.Unlock()

	emitTransformRegistered(context.Background(), typeName(entity), typeName(desired))
	return nil
}

// Define attaches arbitrary metadata to a type or endpoint under key.
// The egress keys are owned by Register and OptOut: writing other shapes
// under them makes later declarations fail with ErrPrecondition, and an
// existing entry under them is never replaced.
func (r *Registry) Define(on any, key string, value any) error {
	t, name, err := resolveTarget(on)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return newConfigError(ErrSealed, name)
	}
	mk := metaKey{target: t, key: key}
	if key == ReturnAsKey || key == OptOutKey {
		if _, exists := r.meta[mk]; exists {
			return newConfigError(ErrPrecondition, name)
		}
	}
	r.meta[mk] = value
	return nil
}

// Metadata returns the raw metadata stored for a type or endpoint under key.
func (r *Registry) Metadata(on any, key string) (any, bool) {
	t, _, err := resolveTarget(on)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.meta[metaKey{target: t, key: key}]
	return v, ok
}

// Resolve finds the transform from entity to desired.
// It returns ErrNoTransforms when entity has no transform table at all and
// ErrNoTransformForType when the table lacks desired.
func (r *Registry) Resolve(entity, desired reflect.Type) (Transform, error) {
	if entity == nil {
		return nil, ErrNoTransforms
	}

	r.mu.RLock()
	current, ok := r.meta[metaKey{target: target{typ: baseType(entity)}, key: ReturnAsKey}]
	r.mu.RUnlock()

	table, isTable := current.(transformTable)
	if !ok || !isTable {
		return nil, ErrNoTransforms
	}
	if desired == nil {
		return nil, ErrNoTransformForType
	}
	fn, ok := table[baseType(desired)]
	if !ok {
		return nil, ErrNoTransformForType
	}
	return fn, nil
}

// Targets returns the desired types registered for entity.
func (r *Registry) Targets(entity reflect.Type) []reflect.Type {
	if entity == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	table, _ := r.meta[metaKey{target: target{typ: baseType(entity)}, key: ReturnAsKey}].(transformTable)
	out := make([]reflect.Type, 0, len(table))
	for t := range table {
		out = append(out, t)
	}
	return out
}

// Seal closes the registry for declarations. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	if r.sealed {
		r.mu.Unlock()
		return
	}
	r.sealed = true
	entities := 0
	for k := range r.meta {
		if k.key == ReturnAsKey {
			entities++
		}
	}
	r.mu.Unlock()

	emitRegistrySealed(context.Background(), entities)
}

// Sealed reports whether the registry has been sealed.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// AllowReturnAs declares that E may be returned wherever D is the declared
// response type, converted by fn. A handler may return E or *E.
func AllowReturnAs[E, D any](r *Registry, fn func(E) D) error {
	entity := reflect.TypeFor[E]()
	desired := reflect.TypeFor[D]()
	if fn == nil {
		return newConfigError(ErrNilTransform, typeName(entity))
	}

	plan, err := buildShapePlan[D]()
	if err != nil {
		return err
	}

	if err := r.Register(entity, desired, func(v any) (any, error) {
		switch e := v.(type) {
		case E:
			return fn(e), nil
		case *E:
			if e == nil {
				return nil, ErrNilEntity
			}
			return fn(*e), nil
		}
		return nil, fmt.Errorf("transform for %s received %T", typeName(entity), v)
	}); err != nil {
		return err
	}

	r.storeShape(desired, plan)
	return nil
}

// AllowReturnAsSelf declares that E is safe to return as itself. The value is
// passed through unchanged.
func AllowReturnAsSelf[E any](r *Registry) error {
	t := reflect.TypeFor[E]()

	plan, err := buildShapePlan[E]()
	if err != nil {
		return err
	}
	if err := r.register(t, t, identity, true); err != nil {
		return err
	}

	r.storeShape(t, plan)
	return nil
}

func identity(v any) (any, error) {
	return v, nil
}

// storeShape records the output shaping plan for a declared type.
// A nil plan records that the type needs no shaping.
func (r *Registry) storeShape(desired reflect.Type, plan *shapePlan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shapes[baseType(desired)] = plan
}

// isSelf reports whether the resolved transform for the pair is an identity
// registration.
func (r *Registry) isSelf(entity, desired reflect.Type) bool {
	entity, desired = baseType(entity), baseType(desired)
	if entity == nil || entity != desired {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selves[entity]
}

// shape returns the shaping plan for t, if any.
func (r *Registry) shape(t reflect.Type) *shapePlan {
	if t == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shapes[baseType(t)]
}

// resolveTarget maps a type or endpoint onto a registry target.
func resolveTarget(on any) (target, string, error) {
	switch v := on.(type) {
	case reflect.Type:
		t := baseType(v)
		return target{typ: t}, typeName(t), nil
	case *Endpoint:
		if v == nil {
			return target{}, "", newConfigError(ErrUnresolvableHandler, "nil endpoint")
		}
		return target{ep: v}, v.Name, nil
	}
	return target{}, "", newConfigError(ErrUnresolvableHandler, fmt.Sprintf("%T", on))
}

// baseType strips pointer indirections.
func baseType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// typeName returns a short human-readable name for t.
func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// funcName returns the runtime name of the function at pc.
func funcName(pc uintptr) string {
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return fmt.Sprintf("func@%#x", pc)
}
