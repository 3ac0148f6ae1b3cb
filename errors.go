package egress

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrPrecondition indicates metadata stored for a type has an unexpected shape.
	ErrPrecondition = errors.New("precondition failed")

	// ErrUnresolvableHandler indicates a metadata target is neither a type nor an endpoint.
	ErrUnresolvableHandler = errors.New("handler did not resolve to an endpoint")

	// ErrSealed indicates a declaration was attempted after the registry was sealed.
	ErrSealed = errors.New("registry is sealed")

	// ErrNilType indicates a nil reflect.Type was supplied.
	ErrNilType = errors.New("nil type")

	// ErrNilTransform indicates a nil transform function was supplied.
	ErrNilTransform = errors.New("nil transform")

	// ErrInvalidTag indicates a shaping struct tag has an invalid value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrNilEntity indicates a typed transform received a nil pointer.
	ErrNilEntity = errors.New("nil entity")

	// ErrHandlerMetadata is the umbrella for every request-time rejection.
	// All MetadataError values match it.
	ErrHandlerMetadata = errors.New("handler metadata error")

	// ErrNoDeclaredType indicates a success status has no declared response type.
	ErrNoDeclaredType = errors.New("no declared response type for status")

	// ErrNoTransforms indicates the returned value's type has no registered transforms.
	ErrNoTransforms = errors.New("no transforms on entity")

	// ErrNoTransformForType indicates the entity has transforms, but none to the declared type.
	ErrNoTransformForType = errors.New("desired type has no transform on entity")

	// ErrTransform indicates a transform function failed or panicked.
	ErrTransform = errors.New("transform failed")
)

// ConfigError represents a declaration-time error.
// It wraps a sentinel error with the name of the offending type or handler.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrPrecondition, ErrSealed, etc.)
	Target string // Type or handler name that triggered the error
}

func (e *ConfigError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s (target %s)", e.Err.Error(), e.Target)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// MetadataError represents a request-time authoring defect detected by the
// interceptor. Error() carries internal names for operators; it must never be
// written into a response body.
type MetadataError struct {
	Err         error  // Underlying sentinel error (ErrNoDeclaredType, ErrNoTransforms, ...)
	Handler     string // Endpoint name
	Status      int    // Actual response status code
	EntityType  string // Runtime type of the returned value, if resolved
	DesiredType string // Declared response type, if resolved
	Cause       error  // Original error, if any
}

func (e *MetadataError) Error() string {
	msg := fmt.Sprintf("%s: handler %s status %d", e.Err.Error(), e.Handler, e.Status)
	if e.EntityType != "" {
		msg += " entity " + e.EntityType
	}
	if e.DesiredType != "" {
		msg += " desired " + e.DesiredType
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// Is reports every MetadataError as an ErrHandlerMetadata.
func (e *MetadataError) Is(target error) bool {
	return target == ErrHandlerMetadata
}

// StatusCode is always 500; metadata defects are server errors regardless of cause.
func (e *MetadataError) StatusCode() int {
	return 500
}

// newConfigError creates a ConfigError for declaration failures.
func newConfigError(sentinel error, target string) error {
	return &ConfigError{
		Err:    sentinel,
		Target: target,
	}
}

// newMetadataError creates a MetadataError for interceptor rejections.
func newMetadataError(sentinel error, handler string, status int, entity, desired string) *MetadataError {
	return &MetadataError{
		Err:         sentinel,
		Handler:     handler,
		Status:      status,
		EntityType:  entity,
		DesiredType: desired,
	}
}
