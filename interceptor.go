package egress

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// Interceptor enforces the return policy on every handler result.
//
// For each result it either passes the value through, replaces it with the
// output of a registered transform, or rejects it with a *MetadataError. It
// fails closed: a success response is never emitted without a declared type
// and a transform approved for that type.
//
// An Interceptor only reads its registry and is safe for concurrent use.
type Interceptor struct {
	registry *Registry
	logger   *zap.Logger
	config   Config
	maskers  map[MaskType]Masker
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Interceptor) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithConfig replaces the default policy configuration.
func WithConfig(cfg Config) Option {
	return func(i *Interceptor) {
		i.config = cfg
	}
}

// WithMasker registers or replaces a masker.
func WithMasker(mt MaskType, m Masker) Option {
	return func(i *Interceptor) {
		i.maskers[mt] = m
	}
}

// NewInterceptor creates an Interceptor over r and seals r. All declarations
// must be made before this call.
func NewInterceptor(r *Registry, opts ...Option) (*Interceptor, error) {
	if r == nil {
		return nil, newConfigError(ErrNilType, "registry")
	}

	i := &Interceptor{
		registry: r,
		logger:   zap.NewNop(),
		config:   DefaultConfig(),
		maskers:  builtinMaskers(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if err := i.config.Validate(); err != nil {
		return nil, err
	}

	r.Seal()
	return i, nil
}

// Config returns the interceptor's policy configuration.
func (i *Interceptor) Config() Config {
	return i.config
}

// Intercept applies the policy to v, the result of ep's handler, about to be
// sent with status. status must be the status actually written, not the one
// the handler was expected to produce.
func (i *Interceptor) Intercept(ctx context.Context, ep *Endpoint, status int, v any) (any, error) {
	if ep == nil {
		ep = &Endpoint{}
	}
	log := i.logger.With(zap.String("handler", ep.Name), zap.Int("status_code", status))

	if i.registry.OptedOut(ep) {
		log.Debug("Handler opted out; passing through.")
		emitPassThrough(ctx, ep.Name, status, reasonOptOut)
		return v, nil
	}

	dt, ok := ep.Responses.Lookup(status)
	if !ok {
		if !i.config.IsSuccess(status) {
			log.Debug("No declared type, but is an error; passing through.")
			emitPassThrough(ctx, ep.Name, status, reasonErrorStatus)
			return v, nil
		}
		log.Error("Handler returned a success status it has no declared type for.")
		return nil, i.reject(ctx, newMetadataError(ErrNoDeclaredType, ep.Name, status, "", ""))
	}

	entity := reflect.TypeOf(v)
	entityName := typeName(baseType(entity))
	log = log.With(zap.String("entity_type", entityName), zap.String("desired_type", dt.Name))

	fn, err := i.registry.Resolve(entity, dt.Type)
	if err != nil {
		if errors.Is(err, ErrNoTransforms) {
			log.Error("No transforms on entity.")
		} else {
			log.Error("Desired type has no transform on entity.")
		}
		return nil, i.reject(ctx, newMetadataError(err, ep.Name, status, entityName, dt.Name))
	}

	start := time.Now()
	out, err := apply(fn, v)
	if err != nil {
		log.Error("Transform failed.", zap.Error(err))
		merr := newMetadataError(ErrTransform, ep.Name, status, entityName, dt.Name)
		merr.Cause = err
		return nil, i.reject(ctx, merr)
	}

	if i.config.Masking && !i.registry.isSelf(entity, dt.Type) {
		if plan := i.registry.shape(dt.Type); plan != nil {
			out = plan.apply(out, i.maskers)
		}
	}

	log.Debug("Response transformed.")
	emitTransformed(ctx, ep.Name, status, entityName, dt.Name, time.Since(start))
	return out, nil
}

func (i *Interceptor) reject(ctx context.Context, err *MetadataError) error {
	emitRejected(ctx, err)
	return err
}

// apply runs fn, converting a panic into an error.
func apply(fn Transform, v any) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(v)
}
