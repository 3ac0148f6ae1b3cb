package egress

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for egress events.
var (
	SignalTransformRegistered = capitan.NewSignal("egress.transform.registered", "Transform declared for an entity type")
	SignalOptOutRegistered    = capitan.NewSignal("egress.optout.registered", "Handler exempted from enforcement")
	SignalRegistrySealed      = capitan.NewSignal("egress.registry.sealed", "Registry closed for declarations")
	SignalPassThrough         = capitan.NewSignal("egress.response.passthrough", "Response passed through unmodified")
	SignalTransformed         = capitan.NewSignal("egress.response.transformed", "Response shaped by a registered transform")
	SignalRejected            = capitan.NewSignal("egress.response.rejected", "Response rejected by policy")
)

// Keys for typed event data.
var (
	KeyHandler     = capitan.NewStringKey("handler")
	KeyEntityType  = capitan.NewStringKey("entity_type")
	KeyDesiredType = capitan.NewStringKey("desired_type")
	KeyReason      = capitan.NewStringKey("reason")
	KeyStatus      = capitan.NewIntKey("status_code")
	KeyCount       = capitan.NewIntKey("count")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// Pass-through reasons.
const (
	reasonOptOut      = "opt_out"
	reasonErrorStatus = "error_status"
)

// emitTransformRegistered emits an event when a transform is declared.
func emitTransformRegistered(ctx context.Context, entity, desired string) {
	capitan.Emit(ctx, SignalTransformRegistered,
		KeyEntityType.Field(entity),
		KeyDesiredType.Field(desired),
	)
}

// emitOptOutRegistered emits an event when a handler opts out.
func emitOptOutRegistered(ctx context.Context, handler string) {
	capitan.Emit(ctx, SignalOptOutRegistered,
		KeyHandler.Field(handler),
	)
}

// emitRegistrySealed emits an event when the registry is sealed.
func emitRegistrySealed(ctx context.Context, entities int) {
	capitan.Emit(ctx, SignalRegistrySealed,
		KeyCount.Field(entities),
	)
}

// emitPassThrough emits an event when a response is left untouched.
func emitPassThrough(ctx context.Context, handler string, status int, reason string) {
	capitan.Emit(ctx, SignalPassThrough,
		KeyHandler.Field(handler),
		KeyStatus.Field(status),
		KeyReason.Field(reason),
	)
}

// emitTransformed emits an event when a transform was applied.
func emitTransformed(ctx context.Context, handler string, status int, entity, desired string, duration time.Duration) {
	capitan.Emit(ctx, SignalTransformed,
		KeyHandler.Field(handler),
		KeyStatus.Field(status),
		KeyEntityType.Field(entity),
		KeyDesiredType.Field(desired),
		KeyDuration.Field(duration),
	)
}

// emitRejected emits an error event for a policy rejection.
func emitRejected(ctx context.Context, err *MetadataError) {
	fields := []capitan.Field{
		KeyHandler.Field(err.Handler),
		KeyStatus.Field(err.Status),
		KeyReason.Field(err.Err.Error()),
		KeyError.Field(err),
	}
	if err.EntityType != "" {
		fields = append(fields, KeyEntityType.Field(err.EntityType))
	}
	if err.DesiredType != "" {
		fields = append(fields, KeyDesiredType.Field(err.DesiredType))
	}
	capitan.Error(ctx, SignalRejected, fields...)
}
